package service

import (
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/errno"
	"Orion_Tube/pkg/logger"
	"Orion_Tube/pkg/oss"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Uploader 媒体上传：传入本地临时文件，返回对外地址和时长，本地文件由它负责删除
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*oss.UploadResult, error)
}

type PublishVideoInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
	IsPublished   bool
}

// UpdateVideoInput nil表示不修改
type UpdateVideoInput struct {
	Title         *string
	Description   *string
	ThumbnailPath string
}

type VideoService interface {
	Publish(ctx context.Context, ownerID uint64, in PublishVideoInput) (*model.Video, error)
	GetVideoByID(ctx context.Context, viewer, videoID uint64) (*dto.VideoDetail, error)
	Update(ctx context.Context, principal, videoID uint64, in UpdateVideoInput) (*model.Video, error)
	Delete(ctx context.Context, principal, videoID uint64) error
	TogglePublish(ctx context.Context, principal, videoID uint64) (*model.Video, error)
}

type videoService struct {
	sf singleflight.Group

	videoRepo repository.VideoRepository
	relations RelationService
	uow       data.UnitOfWork
	uploader  Uploader
}

func NewVideoService(videoRepo repository.VideoRepository, relations RelationService, uow data.UnitOfWork, uploader Uploader) VideoService {
	return &videoService{
		videoRepo: videoRepo,
		relations: relations,
		uow:       uow,
		uploader:  uploader,
	}
}

// Publish 发布视频：1、校验字段 2、视频和封面并发上传 3、写库
func (s *videoService) Publish(ctx context.Context, ownerID uint64, in PublishVideoInput) (*model.Video, error) {
	title, description := strings.TrimSpace(in.Title), strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		Discard(in.VideoPath, in.ThumbnailPath)
		return nil, errno.InvalidArgument.WithMessage("标题和简介不能为空")
	}
	if in.VideoPath == "" || in.ThumbnailPath == "" {
		Discard(in.VideoPath, in.ThumbnailPath)
		return nil, errno.InvalidArgument.WithMessage("视频文件和封面都是必须的")
	}

	var videoRes, thumbRes *oss.UploadResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		videoRes, err = s.uploader.Upload(gctx, in.VideoPath)
		return err
	})
	g.Go(func() error {
		var err error
		thumbRes, err = s.uploader.Upload(gctx, in.ThumbnailPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errno.UploadFailed.WithCause(err)
	}

	video := &model.Video{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Thumbnail:   thumbRes.URL,
		VideoFile:   videoRes.URL,
		Duration:    videoRes.Duration,
		IsPublished: in.IsPublished,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// Discard 校验没过时删除已经落盘的临时文件
func Discard(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

// loadVideo 根据videoID查找视频：1、查找Redis缓存 2、通过SingleFlight进行数据库查找并回填缓存
func (s *videoService) loadVideo(ctx context.Context, videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoCache(ctx, videoID)
	if err == nil && video != nil {
		return video, nil
	}
	if err != nil {
		// Redis本身出错了，降级直接查库
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("读取视频缓存失败")
	}
	// 缓存未命中，通过SingleFlight查找，同一时间的同一个视频只查一次库
	key := fmt.Sprintf("get_video_%d", videoID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbVideo, dbErr := s.videoRepo.FindByID(ctx, videoID)
		if dbErr != nil {
			return nil, dbErr
		}
		_ = s.videoRepo.SetVideoCache(ctx, dbVideo)
		return dbVideo, nil
	})
	if err != nil {
		return nil, err
	}
	// 多个调用方共享同一个结果，返回副本
	shared := *result.(*model.Video)
	return &shared, nil
}

// GetVideoByID 视频详情：可见性检查 + 点赞数 + 播放数加一
func (s *videoService) GetVideoByID(ctx context.Context, viewer, videoID uint64) (*dto.VideoDetail, error) {
	if videoID == 0 {
		return nil, errno.InvalidArgument.WithMessage("视频ID不合法")
	}
	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := AssertVisible(viewer, video); err != nil {
		return nil, err
	}

	likes, err := s.relations.Count(ctx, model.TargetVideo, videoID)
	if err != nil {
		return nil, err
	}
	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("增加播放数失败")
	}
	return &dto.VideoDetail{Video: video, LikeCount: likes}, nil
}

// Update 修改标题、简介、封面，只有归属者能改
func (s *videoService) Update(ctx context.Context, principal, videoID uint64, in UpdateVideoInput) (*model.Video, error) {
	if videoID == 0 {
		Discard(in.ThumbnailPath)
		return nil, errno.InvalidArgument.WithMessage("视频ID不合法")
	}
	fields := map[string]any{}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			Discard(in.ThumbnailPath)
			return nil, errno.InvalidArgument.WithMessage("标题不能为空")
		}
		fields["title"] = t
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			Discard(in.ThumbnailPath)
			return nil, errno.InvalidArgument.WithMessage("简介不能为空")
		}
		fields["description"] = d
	}

	video, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		Discard(in.ThumbnailPath)
		return nil, err
	}
	if err := AssertOwner(principal, video); err != nil {
		Discard(in.ThumbnailPath)
		return nil, err
	}
	if in.ThumbnailPath != "" {
		res, err := s.uploader.Upload(ctx, in.ThumbnailPath)
		if err != nil {
			return nil, errno.UploadFailed.WithCause(err)
		}
		fields["thumbnail"] = res.URL
	}
	if len(fields) == 0 {
		return nil, errno.InvalidArgument.WithMessage("没有需要修改的字段")
	}

	if err := s.videoRepo.Update(ctx, videoID, fields); err != nil {
		return nil, err
	}
	s.dropCache(ctx, videoID)
	return s.videoRepo.FindByID(ctx, videoID)
}

// Delete 在事务里锁住视频，删除视频和它的评论。点赞和播放列表里的引用保留，读的时候过滤
func (s *videoService) Delete(ctx context.Context, principal, videoID uint64) error {
	if videoID == 0 {
		return errno.InvalidArgument.WithMessage("视频ID不合法")
	}
	critical, cancel := detach(ctx)
	defer cancel()

	err := s.uow.Execute(critical, func(repos *data.TransactionalRepositories) error {
		video, err := repos.VideoRepo.FindByIDForUpdate(critical, videoID)
		if err != nil {
			return err
		}
		if err := AssertOwner(principal, video); err != nil {
			return err
		}
		if err := repos.VideoRepo.Delete(critical, videoID); err != nil {
			return err
		}
		return repos.CommentRepo.DeleteByVideo(critical, videoID)
	})
	if err != nil {
		return err
	}
	s.dropCache(critical, videoID)
	return nil
}

// TogglePublish 切换公开状态，返回切换后的视频
func (s *videoService) TogglePublish(ctx context.Context, principal, videoID uint64) (*model.Video, error) {
	if videoID == 0 {
		return nil, errno.InvalidArgument.WithMessage("视频ID不合法")
	}
	critical, cancel := detach(ctx)
	defer cancel()

	var result *model.Video
	err := s.uow.Execute(critical, func(repos *data.TransactionalRepositories) error {
		video, err := repos.VideoRepo.FindByIDForUpdate(critical, videoID)
		if err != nil {
			return err
		}
		if err := AssertOwner(principal, video); err != nil {
			return err
		}
		video.IsPublished = !video.IsPublished
		if err := repos.VideoRepo.Update(critical, videoID, map[string]any{"is_published": video.IsPublished}); err != nil {
			return err
		}
		result = video
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.dropCache(critical, videoID)
	return result, nil
}

func (s *videoService) dropCache(ctx context.Context, videoID uint64) {
	if err := s.videoRepo.DelVideoCache(ctx, videoID); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("删除视频缓存失败")
	}
}
