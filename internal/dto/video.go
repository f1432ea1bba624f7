package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

type VideoResponse struct {
	ID          uint64    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	VideoFile   string    `json:"videoFile"`
	Duration    float64   `json:"duration"`
	Views       uint64    `json:"views"`
	IsPublished bool      `json:"isPublished"`
	OwnerID     uint64    `json:"ownerId"`
	Owner       OwnerInfo `json:"owner"`
	LikeCount   *int64    `json:"likeCount,omitempty"` // 只有详情接口会带
}

// ToVideoResponse 把DB模型转换为API响应模型，Owner是preload出来的
func ToVideoResponse(video *model.Video) VideoResponse {
	return VideoResponse{
		ID:          video.ID,
		CreatedAt:   video.CreatedAt,
		UpdatedAt:   video.UpdatedAt,
		Title:       video.Title,
		Description: video.Description,
		Thumbnail:   video.Thumbnail,
		VideoFile:   video.VideoFile,
		Duration:    video.Duration,
		Views:       video.Views,
		IsPublished: video.IsPublished,
		OwnerID:     video.OwnerID,
		Owner:       ownerFromUser(video.Owner),
	}
}

// FromVideoRow 列表查询的结果行，Owner来自反范式连接
func FromVideoRow(row model.VideoRow) VideoResponse {
	resp := ToVideoResponse(&row.Video)
	resp.Owner = ToOwnerInfo(row.OwnerProjection)
	return resp
}

// VideoDetail 视频详情：视频本身 + 点赞数
type VideoDetail struct {
	Video     *model.Video
	LikeCount int64
}

func ToVideoDetailResponse(d *VideoDetail) VideoResponse {
	resp := ToVideoResponse(d.Video)
	count := d.LikeCount
	resp.LikeCount = &count
	return resp
}
