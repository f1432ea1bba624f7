package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/pipeline"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/errno"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LikeHandler interface {
	ToggleVideoLike(c *gin.Context)
	ToggleCommentLike(c *gin.Context)
	ToggleTweetLike(c *gin.Context)
	GetLikedVideos(c *gin.Context)
	GetLikeCount(c *gin.Context)
}

type likeHandler struct {
	relationService service.RelationService
	feedService     service.FeedService
	maxLimit        int
}

func NewLikeHandler(relationService service.RelationService, feedService service.FeedService, maxLimit int) LikeHandler {
	return &likeHandler{relationService: relationService, feedService: feedService, maxLimit: maxLimit}
}

func (h *likeHandler) ToggleVideoLike(c *gin.Context)   { h.toggle(c, model.TargetVideo) }
func (h *likeHandler) ToggleCommentLike(c *gin.Context) { h.toggle(c, model.TargetComment) }
func (h *likeHandler) ToggleTweetLike(c *gin.Context)   { h.toggle(c, model.TargetTweet) }

// toggle 点赞/取消点赞：1、:target_id定位资源 2、从认证后的context获取userID 3、执行切换，返回切换后的状态
func (h *likeHandler) toggle(c *gin.Context, kind model.TargetKind) {
	// :target_id用来定位资源(Resource)，把它放在URL路径里，用c.Param()获取
	targetID, err := paramID(c, "target_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析目标ID")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("kind", kind).WithField("target_id", targetID)

	active, err := h.relationService.Toggle(c.Request.Context(), userID, kind, targetID)
	if err != nil {
		sendError(c, logCtx, err, "切换点赞")
		return
	}
	logCtx.WithField("active", active).Info("切换点赞成功")

	message := "取消点赞成功"
	if active {
		message = "点赞成功"
	}
	sendSuccess(c, http.StatusOK, dto.ToggleResponse{Active: active}, message)
}

// 当前用户点赞过的视频，按点赞时间倒序
func (h *likeHandler) GetLikedVideos(c *gin.Context) {
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID)
	params, err := pageParams(c, h.maxLimit)
	if err != nil {
		sendError(c, logCtx, err, "解析分页参数")
		return
	}

	page, err := h.feedService.LikedVideos(c.Request.Context(), userID, params)
	if err != nil {
		sendError(c, logCtx, err, "获取点赞视频")
		return
	}
	sendSuccess(c, http.StatusOK, pipeline.Map(page, dto.FromVideoRow), "成功获取点赞视频")
}

func (h *likeHandler) GetLikeCount(c *gin.Context) {
	kind := model.TargetKind(c.Param("kind"))
	targetID, err := paramID(c, "target_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析目标ID")
		return
	}
	logCtx := logFor(c).WithField("kind", kind).WithField("target_id", targetID)
	if !kind.IsLike() {
		sendError(c, logCtx, errno.InvalidArgument.WithMessage("不支持的目标类型"), "获取点赞数")
		return
	}

	count, err := h.relationService.Count(c.Request.Context(), kind, targetID)
	if err != nil {
		sendError(c, logCtx, err, "获取点赞数")
		return
	}
	sendSuccess(c, http.StatusOK, dto.CountResponse{Kind: kind, TargetID: targetID, Count: count}, "成功获取点赞数")
}
