package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/pipeline"
	"Orion_Tube/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler interface {
	ToggleSubscription(c *gin.Context)
	GetChannelSubscribers(c *gin.Context)
	GetSubscribedChannels(c *gin.Context)
}

type subscriptionHandler struct {
	relationService service.RelationService
	feedService     service.FeedService
	maxLimit        int
}

func NewSubscriptionHandler(relationService service.RelationService, feedService service.FeedService, maxLimit int) SubscriptionHandler {
	return &subscriptionHandler{relationService: relationService, feedService: feedService, maxLimit: maxLimit}
}

func (h *subscriptionHandler) ToggleSubscription(c *gin.Context) {
	channelID, err := paramID(c, "channel_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析频道ID")
		return
	}
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID).WithField("channel_id", channelID)

	active, err := h.relationService.Toggle(c.Request.Context(), userID, model.TargetChannel, channelID)
	if err != nil {
		sendError(c, logCtx, err, "切换订阅")
		return
	}
	logCtx.WithField("active", active).Info("切换订阅成功")

	message := "取消订阅成功"
	if active {
		message = "订阅成功"
	}
	sendSuccess(c, http.StatusOK, dto.ToggleResponse{Active: active}, message)
}

// 频道的粉丝列表
func (h *subscriptionHandler) GetChannelSubscribers(c *gin.Context) {
	channelID, err := paramID(c, "channel_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析频道ID")
		return
	}
	logCtx := logFor(c).WithField("channel_id", channelID)
	params, err := pageParams(c, h.maxLimit)
	if err != nil {
		sendError(c, logCtx, err, "解析分页参数")
		return
	}

	page, err := h.feedService.Subscribers(c.Request.Context(), channelID, params)
	if err != nil {
		sendError(c, logCtx, err, "获取粉丝列表")
		return
	}
	sendSuccess(c, http.StatusOK, pipeline.Map(page, dto.FromSubscriberRow), "成功获取粉丝列表")
}

// 用户订阅的频道列表
func (h *subscriptionHandler) GetSubscribedChannels(c *gin.Context) {
	subscriberID, err := paramID(c, "subscriber_id")
	if err != nil {
		sendError(c, logFor(c), err, "解析用户ID")
		return
	}
	logCtx := logFor(c).WithField("subscriber_id", subscriberID)
	params, err := pageParams(c, h.maxLimit)
	if err != nil {
		sendError(c, logCtx, err, "解析分页参数")
		return
	}

	page, err := h.feedService.SubscribedChannels(c.Request.Context(), subscriberID, params)
	if err != nil {
		sendError(c, logCtx, err, "获取订阅列表")
		return
	}
	sendSuccess(c, http.StatusOK, pipeline.Map(page, dto.FromChannelRow), "成功获取订阅列表")
}
