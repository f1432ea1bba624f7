package service

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/pipeline"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/errno"
	"context"
)

// FeedService 所有分页列表。空页是正常结果，不会报NotFound
type FeedService interface {
	VideoCatalog(ctx context.Context, q repository.VideoQuery) (*pipeline.Page[model.VideoRow], error)
	VideoComments(ctx context.Context, viewer, videoID uint64, params pipeline.Params) (*pipeline.Page[model.CommentRow], error)
	LikedVideos(ctx context.Context, principal uint64, params pipeline.Params) (*pipeline.Page[model.VideoRow], error)
	Subscribers(ctx context.Context, channelID uint64, params pipeline.Params) (*pipeline.Page[model.SubscriptionRow], error)
	SubscribedChannels(ctx context.Context, subscriberID uint64, params pipeline.Params) (*pipeline.Page[model.SubscriptionRow], error)
	UserTweets(ctx context.Context, ownerID uint64, params pipeline.Params) (*pipeline.Page[model.TweetRow], error)
	UserPlaylists(ctx context.Context, ownerID uint64, params pipeline.Params) (*pipeline.Page[model.Playlist], error)
}

type feedService struct {
	feedRepo  repository.FeedRepository
	videoRepo repository.VideoRepository
	userRepo  repository.UserRepository
}

func NewFeedService(feedRepo repository.FeedRepository, videoRepo repository.VideoRepository, userRepo repository.UserRepository) FeedService {
	return &feedService{
		feedRepo:  feedRepo,
		videoRepo: videoRepo,
		userRepo:  userRepo,
	}
}

func (s *feedService) VideoCatalog(ctx context.Context, q repository.VideoQuery) (*pipeline.Page[model.VideoRow], error) {
	return s.feedRepo.VideoCatalog(ctx, q)
}

// VideoComments 视频必须存在且对viewer可见
func (s *feedService) VideoComments(ctx context.Context, viewer, videoID uint64, params pipeline.Params) (*pipeline.Page[model.CommentRow], error) {
	if videoID == 0 {
		return nil, errno.InvalidArgument.WithMessage("视频ID不合法")
	}
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := AssertVisible(viewer, video); err != nil {
		return nil, err
	}
	return s.feedRepo.VideoComments(ctx, videoID, params)
}

func (s *feedService) LikedVideos(ctx context.Context, principal uint64, params pipeline.Params) (*pipeline.Page[model.VideoRow], error) {
	if principal == 0 {
		return nil, errno.Unauthorized
	}
	return s.feedRepo.LikedVideos(ctx, principal, params)
}

// Subscribers 频道的粉丝，信封上额外带totalCount
func (s *feedService) Subscribers(ctx context.Context, channelID uint64, params pipeline.Params) (*pipeline.Page[model.SubscriptionRow], error) {
	if err := s.ensureUser(ctx, channelID); err != nil {
		return nil, err
	}
	page, err := s.feedRepo.Subscribers(ctx, channelID, params)
	if err != nil {
		return nil, err
	}
	return page.With("totalCount", page.TotalDocs), nil
}

func (s *feedService) SubscribedChannels(ctx context.Context, subscriberID uint64, params pipeline.Params) (*pipeline.Page[model.SubscriptionRow], error) {
	if err := s.ensureUser(ctx, subscriberID); err != nil {
		return nil, err
	}
	page, err := s.feedRepo.SubscribedChannels(ctx, subscriberID, params)
	if err != nil {
		return nil, err
	}
	return page.With("totalCount", page.TotalDocs), nil
}

func (s *feedService) UserTweets(ctx context.Context, ownerID uint64, params pipeline.Params) (*pipeline.Page[model.TweetRow], error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.feedRepo.UserTweets(ctx, ownerID, params)
}

func (s *feedService) UserPlaylists(ctx context.Context, ownerID uint64, params pipeline.Params) (*pipeline.Page[model.Playlist], error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.feedRepo.UserPlaylists(ctx, ownerID, params)
}

func (s *feedService) ensureUser(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return errno.InvalidArgument.WithMessage("用户ID不合法")
	}
	_, err := s.userRepo.FindByID(ctx, userID)
	return err
}
