package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/pipeline"
	"Orion_Tube/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TweetHandler interface {
	CreateTweet(c *gin.Context)
	GetUserTweets(c *gin.Context)
	UpdateTweet(c *gin.Context)
	DeleteTweet(c *gin.Context)
}

type tweetHandler struct {
	tweetService service.TweetService
	feedService  service.FeedService
	maxLimit     int
}

func NewTweetHandler(tweetService service.TweetService, feedService service.FeedService, maxLimit int) TweetHandler {
	return &tweetHandler{tweetService: tweetService, feedService: feedService, maxLimit: maxLimit}
}

func (h *tweetHandler) CreateTweet(c *gin.Context) {
	var req ContentRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, logFor(c), err, "推文参数解析")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID)

	tweet, err := h.tweetService.CreateTweet(c.Request.Context(), userID, req.Content)
	if err != nil {
		sendError(c, logCtx, err, "发布推文")
		return
	}
	logCtx.WithField("tweet_id", tweet.ID).Info("推文发布成功")
	sendSuccess(c, http.StatusCreated, dto.ToTweetResponse(tweet), "推文发布成功")
}

func (h *tweetHandler) GetUserTweets(c *gin.Context) {
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

	page, err := h.feedService.UserTweets(c.Request.Context(), ownerID, params)
	if err != nil {
		sendError(c, logCtx, err, "获取推文列表")
		return
	}
	sendSuccess(c, http.StatusOK, pipeline.Map(page, dto.FromTweetRow), "成功获取推文列表")
}

func (h *tweetHandler) UpdateTweet(c *gin.Context) {
	tweetID, err := paramID(c, "tweet_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析推文ID")
		return
	}
	var req ContentRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, logFor(c), err, "推文参数解析")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("tweet_id", tweetID)

	tweet, err := h.tweetService.UpdateTweet(c.Request.Context(), userID, tweetID, req.Content)
	if err != nil {
		sendError(c, logCtx, err, "修改推文")
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToTweetResponse(tweet), "推文修改成功")
}

func (h *tweetHandler) DeleteTweet(c *gin.Context) {
	tweetID, err := paramID(c, "tweet_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析推文ID")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("tweet_id", tweetID)

	if err := h.tweetService.DeleteTweet(c.Request.Context(), userID, tweetID); err != nil {
		sendError(c, logCtx, err, "删除推文")
		return
	}
	logCtx.Info("推文删除成功")
	sendSuccess(c, http.StatusOK, gin.H{"tweetId": tweetID}, "推文删除成功")
}
