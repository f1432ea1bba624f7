package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

// PlaylistResponse 列表/修改接口返回的播放列表，Videos是有序的视频ID
type PlaylistResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"ownerId"`
	Videos      []uint64  `json:"videos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToPlaylistResponse(p *model.Playlist) PlaylistResponse {
	videos := []uint64(p.Videos)
	if videos == nil {
		videos = []uint64{}
	}
	return PlaylistResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		Videos:      videos,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PlaylistDetail 播放列表详情：视频已经展开，悬空的和看不到的ID已经被过滤
type PlaylistDetail struct {
	Playlist *model.Playlist
	Videos   []model.VideoRow
}

type PlaylistDetailResponse struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OwnerID     uint64          `json:"ownerId"`
	TotalVideos int             `json:"totalVideos"`
	Videos      []VideoResponse `json:"videos"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func ToPlaylistDetailResponse(d *PlaylistDetail) PlaylistDetailResponse {
	videos := make([]VideoResponse, 0, len(d.Videos))
	for _, v := range d.Videos {
		videos = append(videos, FromVideoRow(v))
	}
	return PlaylistDetailResponse{
		ID:          d.Playlist.ID,
		Name:        d.Playlist.Name,
		Description: d.Playlist.Description,
		OwnerID:     d.Playlist.OwnerID,
		TotalVideos: len(videos),
		Videos:      videos,
		CreatedAt:   d.Playlist.CreatedAt,
		UpdatedAt:   d.Playlist.UpdatedAt,
	}
}
