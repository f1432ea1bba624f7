package repository

import (
	"Orion_Tube/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	FindByID(ctx context.Context, videoID uint64) (*model.Video, error)
	// 带锁的查找
	FindByIDForUpdate(ctx context.Context, videoID uint64) (*model.Video, error)
	Update(ctx context.Context, videoID uint64, fields map[string]any) error
	Delete(ctx context.Context, videoID uint64) error
	IncrementViews(ctx context.Context, videoID uint64) error

	// 缓存里只存视频本身和归属者的精简信息
	GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error)
	SetVideoCache(ctx context.Context, video *model.Video) error
	DelVideoCache(ctx context.Context, videoID uint64) error

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewVideoRepository(db *gorm.DB, rdb *redis.Client) VideoRepository {
	return &videoRepository{
		db:  db,
		rdb: rdb,
	}
}

// WithTx 返回一个新的、使用事务的 videoRepository 实例，缓存客户端保持不变
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{
		db:  tx,
		rdb: r.rdb,
	}
}

func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(video).Error
}

// preloadOwner 只预加载归属者的公开字段
func preloadOwner(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "full_name", "avatar")
}

// 利用videoID找视频，preload其中的Owner结构
func (r *videoRepository) FindByID(ctx context.Context, videoID uint64) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Preload("Owner", preloadOwner).First(&video, videoID).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) FindByIDForUpdate(ctx context.Context, videoID uint64) (*model.Video, error) {
	var video model.Video
	// SELECT * FROM `videos` WHERE `id` = ? LIMIT 1 FOR UPDATE;
	// FOR UPDATE锁的生命周期和事务的生命周期是完全绑定的，会持续直到整个Execute函数包裹的事务结束
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&video, videoID).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Update 只更新传进来的字段，map里的false/空串也会被更新
func (r *videoRepository) Update(ctx context.Context, videoID uint64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoID).Updates(fields).Error
}

// Delete 软删除，点赞行和播放列表里的ID都不会级联删除，读的时候过滤
func (r *videoRepository) Delete(ctx context.Context, videoID uint64) error {
	return r.db.WithContext(ctx).Delete(&model.Video{}, videoID).Error
}

func (r *videoRepository) IncrementViews(ctx context.Context, videoID uint64) error {
	// UPDATE `videos` SET `views` = `views` + 1 WHERE id = ?
	return r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoID).UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// 返回存储单个视频信息的字符串Key
func (r *videoRepository) keyVideoInfo(videoID uint64) string {
	return fmt.Sprintf("video:info:%d", videoID)
}

// 从Redis缓存中获取单个Video信息：1、利用VideoID组装key 2、拿key去rdb中寻找videoJSON 3、利用json.Unmarshal将拿到的videoJSON反序列化
func (r *videoRepository) GetVideoCache(ctx context.Context, videoID uint64) (*model.Video, error) {
	videoJSON, err := r.rdb.Get(ctx, r.keyVideoInfo(videoID)).Result()
	if err == redis.Nil {
		return nil, nil // 如果缓存不存在，但是Redis正常工作
	} else if err != nil {
		return nil, err // Redis本身出错了
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// 将单个视频信息存入Redis缓存：1、序列化成JSON字符串 2、设置带随机性的过期时间 3、SET写入
func (r *videoRepository) SetVideoCache(ctx context.Context, video *model.Video) error {
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return err
	}
	// 设置过期时间，再加上随机性防止缓存雪崩
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(ctx, r.keyVideoInfo(video.ID), videoJSON, expiration).Err()
}

// DelVideoCache 视频被修改/删除/切换公开状态后删除缓存，下次读再回填
func (r *videoRepository) DelVideoCache(ctx context.Context, videoID uint64) error {
	return r.rdb.Del(ctx, r.keyVideoInfo(videoID)).Err()
}
