package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

// ToggleResponse 切换后的状态：true表示关系现在存在
type ToggleResponse struct {
	Active bool `json:"active"`
}

type CountResponse struct {
	Kind     model.TargetKind `json:"kind"`
	TargetID uint64           `json:"targetId"`
	Count    int64            `json:"count"`
}

// ChannelResponse 订阅列表里的一行：另一端用户的精简信息 + 订阅时间
type ChannelResponse struct {
	UserID       uint64    `json:"userId"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// FromSubscriberRow 查粉丝：另一端是订阅者
func FromSubscriberRow(row model.SubscriptionRow) ChannelResponse {
	return channelResponse(row.SubscriberID, row)
}

// FromChannelRow 查关注的频道：另一端是频道主
func FromChannelRow(row model.SubscriptionRow) ChannelResponse {
	return channelResponse(row.ChannelID, row)
}

func channelResponse(userID uint64, row model.SubscriptionRow) ChannelResponse {
	return ChannelResponse{
		UserID:       userID,
		Username:     row.OwnerUsername,
		FullName:     row.OwnerFullName,
		Avatar:       row.OwnerAvatar,
		SubscribedAt: row.CreatedAt,
	}
}
