package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

type CommentResponse struct {
	ID        uint64    `json:"id"`
	VideoID   uint64    `json:"videoId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	OwnerID   uint64    `json:"ownerId"`
	Owner     OwnerInfo `json:"owner"`
}

func ToCommentResponse(comment *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		OwnerID:   comment.OwnerID,
		Owner:     ownerFromUser(comment.Owner),
	}
}

func FromCommentRow(row model.CommentRow) CommentResponse {
	resp := ToCommentResponse(&row.Comment)
	resp.Owner = ToOwnerInfo(row.OwnerProjection)
	return resp
}
