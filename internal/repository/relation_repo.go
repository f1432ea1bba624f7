package repository

import (
	"Orion_Tube/internal/model"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// RelationRepository 点赞和订阅两张关系表的唯一入口，其它地方不直接改这两张表
type RelationRepository interface {
	// Toggle 存在就删除，不存在就插入，返回切换后的状态
	Toggle(ctx context.Context, rel model.Relation) (bool, error)
	Exists(ctx context.Context, rel model.Relation) (bool, error)
	// Count 目标上的关系条数：点赞数或者粉丝数
	Count(ctx context.Context, target model.Target) (int64, error)
	// CountByPrincipal 主体发出的关系条数，比如订阅了多少个频道
	CountByPrincipal(ctx context.Context, principal uint64, kind model.TargetKind) (int64, error)
	// ListTargets 主体当前关联的全部目标ID，按建立关系的先后排列
	ListTargets(ctx context.Context, principal uint64, kind model.TargetKind) ([]uint64, error)

	WithTx(tx *gorm.DB) RelationRepository
}

type relationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) WithTx(tx *gorm.DB) RelationRepository {
	return &relationRepository{db: tx}
}

// scope 按关系类型选表，并拼好“谁-指向-什么”的条件
func scope(db *gorm.DB, rel model.Relation) (*gorm.DB, error) {
	switch {
	case rel.Target.Kind.IsLike():
		return db.Model(&model.Like{}).
			Where("liked_by_id = ? AND target_kind = ? AND target_id = ?", rel.Principal, rel.Target.Kind, rel.Target.ID), nil
	case rel.Target.Kind == model.TargetChannel:
		return db.Model(&model.Subscription{}).
			Where("subscriber_id = ? AND channel_id = ?", rel.Principal, rel.Target.ID), nil
	}
	return nil, fmt.Errorf("unknown target kind %q", rel.Target.Kind)
}

func newRow(rel model.Relation) any {
	if rel.Target.Kind == model.TargetChannel {
		return &model.Subscription{SubscriberID: rel.Principal, ChannelID: rel.Target.ID}
	}
	return &model.Like{LikedByID: rel.Principal, TargetKind: rel.Target.Kind, TargetID: rel.Target.ID}
}

func deleteRelation(tx *gorm.DB, rel model.Relation) (int64, error) {
	q, err := scope(tx, rel)
	if err != nil {
		return 0, err
	}
	var row any = &model.Like{}
	if rel.Target.Kind == model.TargetChannel {
		row = &model.Subscription{}
	}
	res := q.Delete(row)
	return res.RowsAffected, res.Error
}

// Toggle 在一个事务里完成切换：1、先删，删掉了说明原来存在，返回false 2、没删到就插入，返回true
// 3、插入撞上唯一索引说明有并发的切换先插进来了，这次切换应该把它删掉，返回false
// 唯一索引保证任何时候最多一行，事务保证不会出现“删了但没插”的中间状态
func (r *relationRepository) Toggle(ctx context.Context, rel model.Relation) (bool, error) {
	var active bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := deleteRelation(tx, rel)
		if err != nil {
			return err
		}
		if deleted > 0 {
			active = false
			return nil
		}

		if err := tx.Create(newRow(rel)).Error; err != nil {
			if !IsDuplicateKey(err) {
				return err
			}
			if _, err := deleteRelation(tx, rel); err != nil {
				return err
			}
			active = false
			return nil
		}
		active = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return active, nil
}

func (r *relationRepository) Exists(ctx context.Context, rel model.Relation) (bool, error) {
	q, err := scope(r.db.WithContext(ctx), rel)
	if err != nil {
		return false, err
	}
	var n int64
	if err := q.Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *relationRepository) Count(ctx context.Context, target model.Target) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx)
	switch {
	case target.Kind.IsLike():
		db = db.Model(&model.Like{}).Where("target_kind = ? AND target_id = ?", target.Kind, target.ID)
	case target.Kind == model.TargetChannel:
		db = db.Model(&model.Subscription{}).Where("channel_id = ?", target.ID)
	default:
		return 0, fmt.Errorf("unknown target kind %q", target.Kind)
	}
	err := db.Count(&n).Error
	return n, err
}

func (r *relationRepository) CountByPrincipal(ctx context.Context, principal uint64, kind model.TargetKind) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx)
	switch {
	case kind.IsLike():
		db = db.Model(&model.Like{}).Where("liked_by_id = ? AND target_kind = ?", principal, kind)
	case kind == model.TargetChannel:
		db = db.Model(&model.Subscription{}).Where("subscriber_id = ?", principal)
	default:
		return 0, fmt.Errorf("unknown target kind %q", kind)
	}
	err := db.Count(&n).Error
	return n, err
}

func (r *relationRepository) ListTargets(ctx context.Context, principal uint64, kind model.TargetKind) ([]uint64, error) {
	ids := []uint64{}
	db := r.db.WithContext(ctx)
	var err error
	switch {
	case kind.IsLike():
		err = db.Model(&model.Like{}).
			Where("liked_by_id = ? AND target_kind = ?", principal, kind).
			Order("id").Pluck("target_id", &ids).Error
	case kind == model.TargetChannel:
		err = db.Model(&model.Subscription{}).
			Where("subscriber_id = ?", principal).
			Order("id").Pluck("channel_id", &ids).Error
	default:
		return nil, fmt.Errorf("unknown target kind %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}
