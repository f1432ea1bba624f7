package service

import (
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/errno"
	"Orion_Tube/pkg/lock"
	"Orion_Tube/pkg/logger"
	"context"
	"fmt"
	"strings"
)

type PlaylistService interface {
	Create(ctx context.Context, principal uint64, name, description string) (*model.Playlist, error)
	GetByID(ctx context.Context, viewer, playlistID uint64) (*dto.PlaylistDetail, error)
	Update(ctx context.Context, principal, playlistID uint64, name, description string) (*model.Playlist, error)
	Delete(ctx context.Context, principal, playlistID uint64) error
	AddVideo(ctx context.Context, principal, playlistID, videoID uint64) (*model.Playlist, error)
	RemoveVideo(ctx context.Context, principal, playlistID, videoID uint64) (*model.Playlist, error)
}

type playlistService struct {
	playlistRepo repository.PlaylistRepository
	feedRepo     repository.FeedRepository
	uow          data.UnitOfWork
	locker       lock.Locker
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository, feedRepo repository.FeedRepository,
	uow data.UnitOfWork, locker lock.Locker) PlaylistService {
	return &playlistService{
		playlistRepo: playlistRepo,
		feedRepo:     feedRepo,
		uow:          uow,
		locker:       locker,
	}
}

func validatePlaylistFields(name, description string) (string, string, error) {
	name, description = strings.TrimSpace(name), strings.TrimSpace(description)
	if name == "" || description == "" {
		return "", "", errno.InvalidArgument.WithMessage("播放列表名称和描述不能为空")
	}
	return name, description, nil
}

func (s *playlistService) Create(ctx context.Context, principal uint64, name, description string) (*model.Playlist, error) {
	if principal == 0 {
		return nil, errno.Unauthorized
	}
	name, description, err := validatePlaylistFields(name, description)
	if err != nil {
		return nil, err
	}
	playlist := &model.Playlist{
		OwnerID:     principal,
		Name:        name,
		Description: description,
		Videos:      []uint64{},
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// GetByID 播放列表详情：1、查播放列表 2、一次查询取出列表里viewer能看到的视频 3、按列表顺序排好，悬空的ID直接跳过
func (s *playlistService) GetByID(ctx context.Context, viewer, playlistID uint64) (*dto.PlaylistDetail, error) {
	if playlistID == 0 {
		return nil, errno.InvalidArgument.WithMessage("播放列表ID不合法")
	}
	playlist, err := s.playlistRepo.FindByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	rows, err := s.feedRepo.VisibleVideosByIDs(ctx, uniqueIDs(playlist.Videos), viewer)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.VideoRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	videos := make([]model.VideoRow, 0, len(playlist.Videos))
	for _, id := range playlist.Videos {
		if row, ok := byID[id]; ok {
			videos = append(videos, row)
		}
	}
	return &dto.PlaylistDetail{Playlist: playlist, Videos: videos}, nil
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// edit 播放列表的所有修改都走这里：1、按播放列表加锁 2、事务里FOR UPDATE读出来 3、fn修改并写回，提交成功才返回
// 进入临界区后调用方取消也会执行完，失败时事务整体回滚
func (s *playlistService) edit(ctx context.Context, playlistID uint64, fn func(critical context.Context, repos *data.TransactionalRepositories, playlist *model.Playlist) error) (*model.Playlist, error) {
	unlock, err := s.locker.Lock(ctx, fmt.Sprintf("playlist:%d", playlistID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	critical, cancel := detach(ctx)
	defer cancel()

	var result *model.Playlist
	err = s.uow.Execute(critical, func(repos *data.TransactionalRepositories) error {
		playlist, err := repos.PlaylistRepo.FindByIDForUpdate(critical, playlistID)
		if err != nil {
			return err
		}
		if err := fn(critical, repos, playlist); err != nil {
			return err
		}
		result = playlist
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update 只有归属者能改名称和描述
func (s *playlistService) Update(ctx context.Context, principal, playlistID uint64, name, description string) (*model.Playlist, error) {
	if playlistID == 0 {
		return nil, errno.InvalidArgument.WithMessage("播放列表ID不合法")
	}
	name, description, err := validatePlaylistFields(name, description)
	if err != nil {
		return nil, err
	}
	return s.edit(ctx, playlistID, func(critical context.Context, repos *data.TransactionalRepositories, playlist *model.Playlist) error {
		if err := AssertOwner(principal, playlist); err != nil {
			return err
		}
		playlist.Name = name
		playlist.Description = description
		return repos.PlaylistRepo.Save(critical, playlist)
	})
}

func (s *playlistService) Delete(ctx context.Context, principal, playlistID uint64) error {
	if playlistID == 0 {
		return errno.InvalidArgument.WithMessage("播放列表ID不合法")
	}
	_, err := s.edit(ctx, playlistID, func(critical context.Context, repos *data.TransactionalRepositories, playlist *model.Playlist) error {
		if err := AssertOwner(principal, playlist); err != nil {
			return err
		}
		return repos.PlaylistRepo.Delete(critical, playlist.ID)
	})
	return err
}

// AddVideo 追加到列表末尾，允许重复
func (s *playlistService) AddVideo(ctx context.Context, principal, playlistID, videoID uint64) (*model.Playlist, error) {
	return s.changeMembership(ctx, principal, playlistID, videoID, func(p *model.Playlist) {
		p.AppendVideo(videoID)
	})
}

// RemoveVideo 删除列表里所有等于videoID的元素
func (s *playlistService) RemoveVideo(ctx context.Context, principal, playlistID, videoID uint64) (*model.Playlist, error) {
	return s.changeMembership(ctx, principal, playlistID, videoID, func(p *model.Playlist) {
		removed := p.RemoveVideo(videoID)
		logger.Log.WithField("playlist_id", playlistID).WithField("video_id", videoID).WithField("removed", removed).Debug("移出播放列表")
	})
}

// changeMembership 1、播放列表和视频都要存在 2、视频必须对principal可见 3、只有归属者能改 4、修改后写回
func (s *playlistService) changeMembership(ctx context.Context, principal, playlistID, videoID uint64, mutate func(p *model.Playlist)) (*model.Playlist, error) {
	if playlistID == 0 || videoID == 0 {
		return nil, errno.InvalidArgument.WithMessage("播放列表ID或视频ID不合法")
	}
	return s.edit(ctx, playlistID, func(critical context.Context, repos *data.TransactionalRepositories, playlist *model.Playlist) error {
		video, err := repos.VideoRepo.FindByID(critical, videoID)
		if err != nil {
			return err
		}
		if err := AssertVisible(principal, video); err != nil {
			return err
		}
		if err := AssertOwner(principal, playlist); err != nil {
			return err
		}
		mutate(playlist)
		return repos.PlaylistRepo.Save(critical, playlist)
	})
}
