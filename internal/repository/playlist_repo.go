package repository

import (
	"Orion_Tube/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	FindByID(ctx context.Context, playlistID uint64) (*model.Playlist, error)
	// 带锁的查找，同一个播放列表的修改在事务里串行
	FindByIDForUpdate(ctx context.Context, playlistID uint64) (*model.Playlist, error)
	// Save 整行写回，包括有序的视频列表
	Save(ctx context.Context, playlist *model.Playlist) error
	Delete(ctx context.Context, playlistID uint64) error

	WithTx(tx *gorm.DB) PlaylistRepository
}

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) WithTx(tx *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: tx}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if playlist.Videos == nil {
		playlist.Videos = []uint64{}
	}
	return r.db.WithContext(ctx).Create(playlist).Error
}

func (r *playlistRepository) FindByID(ctx context.Context, playlistID uint64) (*model.Playlist, error) {
	var result model.Playlist
	if err := r.db.WithContext(ctx).First(&result, playlistID).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *playlistRepository) FindByIDForUpdate(ctx context.Context, playlistID uint64) (*model.Playlist, error) {
	var result model.Playlist
	// SELECT * FROM `playlists` WHERE `id` = ? LIMIT 1 FOR UPDATE，锁跟着事务走
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&result, playlistID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *playlistRepository) Save(ctx context.Context, playlist *model.Playlist) error {
	return r.db.WithContext(ctx).Save(playlist).Error
}

func (r *playlistRepository) Delete(ctx context.Context, playlistID uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Playlist{}, playlistID).Error
}
