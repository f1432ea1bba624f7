package service

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/errno"
	"Orion_Tube/pkg/lock"
	"Orion_Tube/pkg/logger"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// RelationService 点赞、订阅的切换和计数
type RelationService interface {
	Toggle(ctx context.Context, principal uint64, kind model.TargetKind, targetID uint64) (bool, error)
	Count(ctx context.Context, kind model.TargetKind, targetID uint64) (int64, error)
	ListTargets(ctx context.Context, principal uint64, kind model.TargetKind) ([]uint64, error)
	IsActive(ctx context.Context, principal uint64, kind model.TargetKind, targetID uint64) (bool, error)
	CountByPrincipal(ctx context.Context, principal uint64, kind model.TargetKind) (int64, error)
}

type relationService struct {
	relationRepo repository.RelationRepository
	videoRepo    repository.VideoRepository
	commentRepo  repository.CommentRepository
	tweetRepo    repository.TweetRepository
	userRepo     repository.UserRepository
	counters     repository.CounterCache
	locker       lock.Locker
	publisher    EventPublisher
}

func NewRelationService(relationRepo repository.RelationRepository, videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository, tweetRepo repository.TweetRepository, userRepo repository.UserRepository,
	counters repository.CounterCache, locker lock.Locker, publisher EventPublisher) RelationService {
	return &relationService{
		relationRepo: relationRepo,
		videoRepo:    videoRepo,
		commentRepo:  commentRepo,
		tweetRepo:    tweetRepo,
		userRepo:     userRepo,
		counters:     counters,
		locker:       locker,
		publisher:    publisher,
	}
}

func validateTarget(kind model.TargetKind, targetID uint64) error {
	if !kind.Valid() {
		return errno.InvalidArgument.WithMessage("不支持的目标类型")
	}
	if targetID == 0 {
		return errno.InvalidArgument.WithMessage("目标ID不合法")
	}
	return nil
}

// resolveTarget 确认目标存在：视频还要过可见性，未公开且不是自己的视频当作不存在
func (s *relationService) resolveTarget(ctx context.Context, principal uint64, target model.Target) error {
	var err error
	switch target.Kind {
	case model.TargetVideo:
		var video *model.Video
		video, err = s.videoRepo.FindByID(ctx, target.ID)
		if err == nil {
			return AssertVisible(principal, video)
		}
	case model.TargetComment:
		_, err = s.commentRepo.FindByID(ctx, target.ID)
	case model.TargetTweet:
		_, err = s.tweetRepo.FindByID(ctx, target.ID)
	case model.TargetChannel:
		_, err = s.userRepo.FindByID(ctx, target.ID)
	}
	return err
}

// lockKey 同一个人对同一个目标的切换共用一把锁，不同的key互不影响
func lockKey(rel model.Relation) string {
	return fmt.Sprintf("relation:%d:%s:%d", rel.Principal, rel.Target.Kind, rel.Target.ID)
}

// detach 进入临界区后不再响应调用方的取消，但保留原来的截止时间，存储调用仍然有上限
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}
	return context.WithCancel(detached)
}

// Toggle 切换关系：1、校验参数，不能订阅自己 2、确认目标存在且可见 3、按key加锁，在事务里删或插
// 4、清掉计数缓存并投递事件，这一步失败只记日志，切换本身已经生效
func (s *relationService) Toggle(ctx context.Context, principal uint64, kind model.TargetKind, targetID uint64) (bool, error) {
	if principal == 0 {
		return false, errno.Unauthorized
	}
	if err := validateTarget(kind, targetID); err != nil {
		return false, err
	}
	if kind == model.TargetChannel && principal == targetID {
		return false, errno.InvalidArgument.WithMessage("不能订阅自己")
	}
	rel := model.Relation{Principal: principal, Target: model.Target{Kind: kind, ID: targetID}}

	if err := s.resolveTarget(ctx, principal, rel.Target); err != nil {
		return false, err
	}

	unlock, err := s.locker.Lock(ctx, lockKey(rel))
	if err != nil {
		return false, err
	}
	defer unlock()

	critical, cancel := detach(ctx)
	defer cancel()

	active, err := s.relationRepo.Toggle(critical, rel)
	if err != nil {
		return false, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id":   principal,
		"kind":      kind,
		"target_id": targetID,
		"active":    active,
	})
	if err := s.counters.Invalidate(critical, rel.Target); err != nil {
		log.WithError(err).Warn("清除计数缓存失败")
	}
	event := RelationEvent{PrincipalID: principal, Kind: kind, TargetID: targetID, Active: active}
	if err := s.publisher.Publish(critical, QueueRelation, event); err != nil {
		log.WithError(err).Warn("投递关系事件失败")
	}
	log.Debug("关系切换完成")
	return active, nil
}

// Count 先读缓存，没命中回源数据库再写回缓存。缓存出错不影响结果
func (s *relationService) Count(ctx context.Context, kind model.TargetKind, targetID uint64) (int64, error) {
	if err := validateTarget(kind, targetID); err != nil {
		return 0, err
	}
	target := model.Target{Kind: kind, ID: targetID}

	count, ok, err := s.counters.Get(ctx, target)
	if err != nil {
		logger.Log.WithError(err).WithField("target_id", targetID).Warn("读取计数缓存失败")
	}
	if ok {
		return count, nil
	}

	count, err = s.relationRepo.Count(ctx, target)
	if err != nil {
		return 0, err
	}
	_ = s.counters.Set(ctx, target, count)
	return count, nil
}

func (s *relationService) ListTargets(ctx context.Context, principal uint64, kind model.TargetKind) ([]uint64, error) {
	if !kind.Valid() {
		return nil, errno.InvalidArgument.WithMessage("不支持的目标类型")
	}
	return s.relationRepo.ListTargets(ctx, principal, kind)
}

func (s *relationService) IsActive(ctx context.Context, principal uint64, kind model.TargetKind, targetID uint64) (bool, error) {
	if principal == 0 {
		return false, nil
	}
	if err := validateTarget(kind, targetID); err != nil {
		return false, err
	}
	return s.relationRepo.Exists(ctx, model.Relation{Principal: principal, Target: model.Target{Kind: kind, ID: targetID}})
}

func (s *relationService) CountByPrincipal(ctx context.Context, principal uint64, kind model.TargetKind) (int64, error) {
	if !kind.Valid() {
		return 0, errno.InvalidArgument.WithMessage("不支持的目标类型")
	}
	return s.relationRepo.CountByPrincipal(ctx, principal, kind)
}
