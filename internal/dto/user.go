package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

// OwnerInfo 是在DTO中使用的、精简的用户信息，只有这三个字段可以出现在别人的列表里
type OwnerInfo struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

func ToOwnerInfo(p model.OwnerProjection) OwnerInfo {
	return OwnerInfo{
		Username: p.OwnerUsername,
		FullName: p.OwnerFullName,
		Avatar:   p.OwnerAvatar,
	}
}

// ownerFromUser 从preload出来的User取精简信息，没有preload时为零值
func ownerFromUser(u model.User) OwnerInfo {
	if u.ID == 0 {
		return OwnerInfo{}
	}
	return OwnerInfo{Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

type UserResponse struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ChannelProfile 频道主页：用户信息 + 粉丝数 + 关注数 + 当前用户是否已订阅
type ChannelProfile struct {
	User                      *model.User
	SubscribersCount          int64
	ChannelsSubscribedToCount int64
	IsSubscribed              bool
}

type ChannelProfileResponse struct {
	ID                        uint64 `json:"id"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Avatar                    string `json:"avatar"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

func ToChannelProfileResponse(p *ChannelProfile) ChannelProfileResponse {
	return ChannelProfileResponse{
		ID:                        p.User.ID,
		Username:                  p.User.Username,
		FullName:                  p.User.FullName,
		Avatar:                    p.User.Avatar,
		SubscribersCount:          p.SubscribersCount,
		ChannelsSubscribedToCount: p.ChannelsSubscribedToCount,
		IsSubscribed:              p.IsSubscribed,
	}
}
