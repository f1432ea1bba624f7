package repository

import (
	"Orion_Tube/internal/model"
	"context"

	"gorm.io/gorm"
)

type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	FindByID(ctx context.Context, tweetID uint64) (*model.Tweet, error)
	UpdateContent(ctx context.Context, tweetID uint64, content string) error
	Delete(ctx context.Context, tweetID uint64) error
}

type tweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(tweet).Error
}

func (r *tweetRepository) FindByID(ctx context.Context, tweetID uint64) (*model.Tweet, error) {
	var result model.Tweet
	if err := r.db.WithContext(ctx).Preload("Owner", preloadOwner).First(&result, tweetID).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *tweetRepository) UpdateContent(ctx context.Context, tweetID uint64, content string) error {
	return r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", tweetID).Update("content", content).Error
}

func (r *tweetRepository) Delete(ctx context.Context, tweetID uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Tweet{}, tweetID).Error
}
