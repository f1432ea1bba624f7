package model

import (
	"gorm.io/datatypes"
)

// Playlist 播放列表。Videos是有序的视频ID列表，只是弱引用：视频被删除后ID仍然留在列表里，读的时候再过滤
type Playlist struct {
	BaseModel
	OwnerID     uint64                      `gorm:"not null;index"`
	Name        string                      `gorm:"type:varchar(255);not null"`
	Description string                      `gorm:"type:text;not null"`
	Videos      datatypes.JSONSlice[uint64] `gorm:"not null"`
}

func (p *Playlist) GetOwnerID() uint64 { return p.OwnerID }

// AppendVideo 追加到末尾，允许重复
func (p *Playlist) AppendVideo(videoID uint64) {
	p.Videos = append(p.Videos, videoID)
}

// RemoveVideo 删除列表中所有等于videoID的元素，保持其余元素顺序，返回删掉的个数
func (p *Playlist) RemoveVideo(videoID uint64) int {
	kept := make(datatypes.JSONSlice[uint64], 0, len(p.Videos))
	for _, id := range p.Videos {
		if id != videoID {
			kept = append(kept, id)
		}
	}
	removed := len(p.Videos) - len(kept)
	p.Videos = kept
	return removed
}
