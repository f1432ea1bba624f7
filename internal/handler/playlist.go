package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/pipeline"
	"Orion_Tube/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler interface {
	CreatePlaylist(c *gin.Context)
	GetPlaylistByID(c *gin.Context)
	GetUserPlaylists(c *gin.Context)
	UpdatePlaylist(c *gin.Context)
	DeletePlaylist(c *gin.Context)
	AddVideoToPlaylist(c *gin.Context)
	RemoveVideoFromPlaylist(c *gin.Context)
}

type playlistHandler struct {
	playlistService service.PlaylistService
	feedService     service.FeedService
	maxLimit        int
}

func NewPlaylistHandler(playlistService service.PlaylistService, feedService service.FeedService, maxLimit int) PlaylistHandler {
	return &playlistHandler{playlistService: playlistService, feedService: feedService, maxLimit: maxLimit}
}

type PlaylistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (h *playlistHandler) CreatePlaylist(c *gin.Context) {
	var req PlaylistRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, logFor(c), err, "播放列表参数解析")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID)

	playlist, err := h.playlistService.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		sendError(c, logCtx, err, "创建播放列表")
		return
	}
	logCtx.WithField("playlist_id", playlist.ID).Info("播放列表创建成功")
	sendSuccess(c, http.StatusCreated, dto.ToPlaylistResponse(playlist), "播放列表创建成功")
}

// 播放列表详情，视频已经展开成完整信息
func (h *playlistHandler) GetPlaylistByID(c *gin.Context) {
	playlistID, err := paramID(c, "playlist_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析播放列表ID")
		return
	}
	logCtx := logFor(c).WithField("playlist_id", playlistID)

	detail, err := h.playlistService.GetByID(c.Request.Context(), currentUserID(c), playlistID)
	if err != nil {
		sendError(c, logCtx, err, "获取播放列表")
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToPlaylistDetailResponse(detail), "成功获取播放列表")
}

func (h *playlistHandler) GetUserPlaylists(c *gin.Context) {
	ownerID, err := paramID(c, "user_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析用户ID")
		return
	}
	logCtx := logFor(c).WithField("owner_id", ownerID)
	params, err := pageParams(c, h.maxLimit)
	if err != nil {
		sendError(c, logCtx, err, "解析分页参数")
		return
	}

	page, err := h.feedService.UserPlaylists(c.Request.Context(), ownerID, params)
	if err != nil {
		sendError(c, logCtx, err, "获取用户播放列表")
		return
	}
	sendSuccess(c, http.StatusOK, pipeline.Map(page, func(p model.Playlist) dto.PlaylistResponse {
		return dto.ToPlaylistResponse(&p)
	}), "成功获取用户播放列表")
}

func (h *playlistHandler) UpdatePlaylist(c *gin.Context) {
	playlistID, err := paramID(c, "playlist_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析播放列表ID")
		return
	}
	var req PlaylistRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, logFor(c), err, "播放列表参数解析")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("playlist_id", playlistID)

	playlist, err := h.playlistService.Update(c.Request.Context(), userID, playlistID, req.Name, req.Description)
	if err != nil {
		sendError(c, logCtx, err, "修改播放列表")
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToPlaylistResponse(playlist), "播放列表修改成功")
}

func (h *playlistHandler) DeletePlaylist(c *gin.Context) {
	playlistID, err := paramID(c, "playlist_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析播放列表ID")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("playlist_id", playlistID)

	if err := h.playlistService.Delete(c.Request.Context(), userID, playlistID); err != nil {
		sendError(c, logCtx, err, "删除播放列表")
		return
	}
	logCtx.Info("播放列表删除成功")
	sendSuccess(c, http.StatusOK, gin.H{"playlistId": playlistID}, "播放列表删除成功")
}

func (h *playlistHandler) AddVideoToPlaylist(c *gin.Context) {
	h.membership(c, true)
}

func (h *playlistHandler) RemoveVideoFromPlaylist(c *gin.Context) {
	h.membership(c, false)
}

// membership 加入/移出视频共用：解析两个ID，调用service，返回修改后的播放列表
func (h *playlistHandler) membership(c *gin.Context, add bool) {
	playlistID, err := paramID(c, "playlist_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析播放列表ID")
		return
	}
	videoID, err := paramID(c, "video_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析视频ID")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("playlist_id", playlistID).WithField("video_id", videoID)

	action, edit := "移出播放列表", h.playlistService.RemoveVideo
	if add {
		action, edit = "加入播放列表", h.playlistService.AddVideo
	}
	playlist, err := edit(c.Request.Context(), userID, playlistID, videoID)
	if err != nil {
		sendError(c, logCtx, err, action)
		return
	}
	logCtx.Info(action + "成功")
	sendSuccess(c, http.StatusOK, dto.ToPlaylistResponse(playlist), action+"成功")
}
