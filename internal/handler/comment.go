package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/pipeline"
	"Orion_Tube/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	GetVideoComments(c *gin.Context)
	AddComment(c *gin.Context)
	UpdateComment(c *gin.Context)
	DeleteComment(c *gin.Context)
}

type commentHandler struct {
	commentService service.CommentService
	feedService    service.FeedService
	maxLimit       int
}

func NewCommentHandler(commentService service.CommentService, feedService service.FeedService, maxLimit int) CommentHandler {
	return &commentHandler{
		commentService: commentService,
		feedService:    feedService,
		maxLimit:       maxLimit,
	}
}

// ContentRequest 评论和推文共用的请求体
type ContentRequest struct {
	Content string `json:"content" binding:"required"`
}

// 分页获取视频的评论，视频对当前用户不可见时按不存在处理
func (h *commentHandler) GetVideoComments(c *gin.Context) {
	videoID, err := paramID(c, "video_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析视频ID")
		return
	}
	logCtx := logFor(c).WithField("video_id", videoID)
	params, err := pageParams(c, h.maxLimit)
	if err != nil {
		sendError(c, logCtx, err, "解析分页参数")
		return
	}

	page, err := h.feedService.VideoComments(c.Request.Context(), currentUserID(c), videoID, params)
	if err != nil {
		sendError(c, logCtx, err, "获取评论列表")
		return
	}
	sendSuccess(c, http.StatusOK, pipeline.Map(page, dto.FromCommentRow), "成功获取评论列表")
}

// 创建评论：1、解析videoID和评论内容 2、service层创建 3、返回带作者信息的评论
func (h *commentHandler) AddComment(c *gin.Context) {
	videoID, err := paramID(c, "video_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析视频ID")
		return
	}
	var req ContentRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, logFor(c), err, "评论参数解析")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("video_id", videoID)

	comment, err := h.commentService.AddComment(c.Request.Context(), userID, videoID, req.Content)
	if err != nil {
		sendError(c, logCtx, err, "创建评论")
		return
	}
	logCtx.WithField("comment_id", comment.ID).Info("评论创建成功")
	sendSuccess(c, http.StatusCreated, dto.ToCommentResponse(comment), "评论成功")
}

func (h *commentHandler) UpdateComment(c *gin.Context) {
	commentID, err := paramID(c, "comment_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析评论ID")
		return
	}
	var req ContentRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, logFor(c), err, "评论参数解析")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("comment_id", commentID)

	comment, err := h.commentService.UpdateComment(c.Request.Context(), userID, commentID, req.Content)
	if err != nil {
		sendError(c, logCtx, err, "修改评论")
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToCommentResponse(comment), "评论修改成功")
}

func (h *commentHandler) DeleteComment(c *gin.Context) {
	commentID, err := paramID(c, "comment_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析评论ID")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("comment_id", commentID)

	if err := h.commentService.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		sendError(c, logCtx, err, "删除评论")
		return
	}
	logCtx.Info("评论删除成功")
	sendSuccess(c, http.StatusOK, gin.H{"commentId": commentID}, "评论删除成功")
}
