package service

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/errno"
	"context"
	"strings"
)

type CommentService interface {
	// 给视频添加评论，视频必须对当前用户可见
	AddComment(ctx context.Context, principal, videoID uint64, content string) (*model.Comment, error)
	UpdateComment(ctx context.Context, principal, commentID uint64, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, principal, commentID uint64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
	}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", errno.InvalidArgument.WithMessage("内容不能为空")
	}
	return content, nil
}

// 创建评论：1、校验内容 2、确认视频存在且可见 3、创建后带着Owner再查一次
func (s *commentService) AddComment(ctx context.Context, principal, videoID uint64, content string) (*model.Comment, error) {
	if videoID == 0 {
		return nil, errno.InvalidArgument.WithMessage("视频ID不合法")
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := AssertVisible(principal, video); err != nil {
		return nil, err
	}

	newComment := &model.Comment{
		VideoID: videoID,
		OwnerID: principal,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, newComment); err != nil {
		return nil, err
	}
	// 创建成功后，立刻把它带着关联数据再查出来
	return s.commentRepo.FindByID(ctx, newComment.ID)
}

func (s *commentService) UpdateComment(ctx context.Context, principal, commentID uint64, content string) (*model.Comment, error) {
	if commentID == 0 {
		return nil, errno.InvalidArgument.WithMessage("评论ID不合法")
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(principal, comment); err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	comment.Content = content
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, principal, commentID uint64) error {
	if commentID == 0 {
		return errno.InvalidArgument.WithMessage("评论ID不合法")
	}
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := AssertOwner(principal, comment); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}
