package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

type TweetResponse struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	OwnerID   uint64    `json:"ownerId"`
	Owner     OwnerInfo `json:"owner"`
}

func ToTweetResponse(tweet *model.Tweet) TweetResponse {
	return TweetResponse{
		ID:        tweet.ID,
		Content:   tweet.Content,
		CreatedAt: tweet.CreatedAt,
		UpdatedAt: tweet.UpdatedAt,
		OwnerID:   tweet.OwnerID,
		Owner:     ownerFromUser(tweet.Owner),
	}
}

func FromTweetRow(row model.TweetRow) TweetResponse {
	resp := ToTweetResponse(&row.Tweet)
	resp.Owner = ToOwnerInfo(row.OwnerProjection)
	return resp
}
