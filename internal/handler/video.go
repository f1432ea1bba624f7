package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/pipeline"
	"Orion_Tube/internal/repository"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/errno"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type VideoHandler interface {
	PublishVideo(c *gin.Context)
	GetVideoByID(c *gin.Context)
	GetAllVideos(c *gin.Context)
	UpdateVideo(c *gin.Context)
	DeleteVideo(c *gin.Context)
	TogglePublishStatus(c *gin.Context)
}

type videoHandler struct {
	VideoService service.VideoService
	FeedService  service.FeedService
	uploadDir    string
	maxLimit     int
}

func NewVideoHandler(videoService service.VideoService, feedService service.FeedService, uploadDir string, maxLimit int) VideoHandler {
	return &videoHandler{
		VideoService: videoService,
		FeedService:  feedService,
		uploadDir:    uploadDir,
		maxLimit:     maxLimit,
	}
}

// 发布视频：1、multipart里取标题、简介、视频文件和封面 2、落盘后交给service层上传并写库 3、dto返回
func (h *videoHandler) PublishVideo(c *gin.Context) {
	authorID := currentUserID(c)
	// 蛇形命名法（日志聚合平台ELK、前端JavaScript）
	logCtx := logFor(c).WithField("author_id", authorID)
	logCtx.Info("开始处理发布视频请求")

	videoPath, err := saveUpload(c, "videoFile", h.uploadDir, true)
	if err != nil {
		sendError(c, logCtx, err, "保存视频文件")
		return
	}
	thumbnailPath, err := saveUpload(c, "thumbnail", h.uploadDir, true)
	if err != nil {
		service.Discard(videoPath)
		sendError(c, logCtx, err, "保存封面")
		return
	}
	// isPublished不传时默认公开
	isPublished := true
	if v, ok := c.GetPostForm("isPublished"); ok {
		isPublished, err = strconv.ParseBool(v)
		if err != nil {
			service.Discard(videoPath, thumbnailPath)
			sendError(c, logCtx, errno.InvalidArgument.WithMessage("isPublished必须是布尔值"), "发布视频")
			return
		}
	}

	video, err := h.VideoService.Publish(c.Request.Context(), authorID, service.PublishVideoInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
		IsPublished:   isPublished,
	})
	if err != nil {
		sendError(c, logCtx, err, "发布视频")
		return
	}
	// 没有赋值，临时追加上下文，避免污染后续其他日志
	logCtx.WithField("video_id", video.ID).Info("视频发布成功")
	// 使用201 Created状态码，更符合RESTful规范
	sendSuccess(c, http.StatusCreated, dto.ToVideoResponse(video), "视频发布成功")
}

func (h *videoHandler) GetVideoByID(c *gin.Context) {
	videoID, err := paramID(c, "video_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析视频ID")
		return
	}
	logCtx := logFor(c).WithField("video_id", videoID)

	detail, err := h.VideoService.GetVideoByID(c.Request.Context(), currentUserID(c), videoID)
	if err != nil {
		sendError(c, logCtx, err, "查找视频")
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToVideoDetailResponse(detail), "成功获取视频")
}

// 视频目录：page、limit、query、sortBy、sortType、userId，结果只包含当前用户能看到的视频
func (h *videoHandler) GetAllVideos(c *gin.Context) {
	logCtx := logFor(c)
	params, err := pageParams(c, h.maxLimit)
	if err != nil {
		sendError(c, logCtx, err, "解析分页参数")
		return
	}
	q := repository.VideoQuery{
		Params:   params,
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		Viewer:   currentUserID(c),
	}
	if s := c.Query("userId"); s != "" {
		q.OwnerID, err = strconv.ParseUint(s, 10, 64)
		if err != nil || q.OwnerID == 0 {
			sendError(c, logCtx, errno.InvalidArgument.WithMessage("无效的userId"), "获取视频列表")
			return
		}
	}

	page, err := h.FeedService.VideoCatalog(c.Request.Context(), q)
	if err != nil {
		sendError(c, logCtx, err, "获取视频列表")
		return
	}
	logCtx.WithField("count", len(page.Docs)).Debug("成功获取视频列表")
	sendSuccess(c, http.StatusOK, pipeline.Map(page, dto.FromVideoRow), "成功获取视频列表")
}

// 修改视频：标题、简介、封面都是可选的，只改传了的
func (h *videoHandler) UpdateVideo(c *gin.Context) {
	videoID, err := paramID(c, "video_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析视频ID")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("video_id", videoID)

	thumbnailPath, err := saveUpload(c, "thumbnail", h.uploadDir, false)
	if err != nil {
		sendError(c, logCtx, err, "保存封面")
		return
	}
	video, err := h.VideoService.Update(c.Request.Context(), userID, videoID, service.UpdateVideoInput{
		Title:         formOptional(c, "title"),
		Description:   formOptional(c, "description"),
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		sendError(c, logCtx, err, "修改视频")
		return
	}
	logCtx.Info("视频修改成功")
	sendSuccess(c, http.StatusOK, dto.ToVideoResponse(video), "视频修改成功")
}

func (h *videoHandler) DeleteVideo(c *gin.Context) {
	videoID, err := paramID(c, "video_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析视频ID")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("video_id", videoID)

	if err := h.VideoService.Delete(c.Request.Context(), userID, videoID); err != nil {
		sendError(c, logCtx, err, "删除视频")
		return
	}
	logCtx.Info("视频删除成功")
	sendSuccess(c, http.StatusOK, gin.H{"videoId": videoID}, "视频删除成功")
}

func (h *videoHandler) TogglePublishStatus(c *gin.Context) {
	videoID, err := paramID(c, "video_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析视频ID")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("video_id", videoID)

	video, err := h.VideoService.TogglePublish(c.Request.Context(), userID, videoID)
	if err != nil {
		sendError(c, logCtx, err, "切换公开状态")
		return
	}
	logCtx.WithField("is_published", video.IsPublished).Info("切换公开状态成功")
	sendSuccess(c, http.StatusOK, dto.ToVideoResponse(video), "切换公开状态成功")
}
