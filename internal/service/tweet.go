package service

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/errno"
	"context"
)

type TweetService interface {
	CreateTweet(ctx context.Context, principal uint64, content string) (*model.Tweet, error)
	UpdateTweet(ctx context.Context, principal, tweetID uint64, content string) (*model.Tweet, error)
	DeleteTweet(ctx context.Context, principal, tweetID uint64) error
}

type tweetService struct {
	tweetRepo repository.TweetRepository
}

func NewTweetService(tweetRepo repository.TweetRepository) TweetService {
	return &tweetService{tweetRepo: tweetRepo}
}

func (s *tweetService) CreateTweet(ctx context.Context, principal uint64, content string) (*model.Tweet, error) {
	if principal == 0 {
		return nil, errno.Unauthorized
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	tweet := &model.Tweet{OwnerID: principal, Content: content}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return s.tweetRepo.FindByID(ctx, tweet.ID)
}

func (s *tweetService) UpdateTweet(ctx context.Context, principal, tweetID uint64, content string) (*model.Tweet, error) {
	if tweetID == 0 {
		return nil, errno.InvalidArgument.WithMessage("推文ID不合法")
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	tweet, err := s.tweetRepo.FindByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(principal, tweet); err != nil {
		return nil, err
	}
	if err := s.tweetRepo.UpdateContent(ctx, tweetID, content); err != nil {
		return nil, err
	}
	tweet.Content = content
	return tweet, nil
}

func (s *tweetService) DeleteTweet(ctx context.Context, principal, tweetID uint64) error {
	if tweetID == 0 {
		return errno.InvalidArgument.WithMessage("推文ID不合法")
	}
	tweet, err := s.tweetRepo.FindByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if err := AssertOwner(principal, tweet); err != nil {
		return err
	}
	return s.tweetRepo.Delete(ctx, tweetID)
}
