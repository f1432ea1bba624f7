package consumer

import (
	"Orion_Tube/internal/repository"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/logger"
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Decision 一条消息处理完之后怎么回复mq
type Decision int

const (
	Ack     Decision = iota // 处理成功，或者重复消费
	Requeue                 // 临时错误，放回队列重试
	Drop                    // 坏消息，重试也没用，直接丢弃
)

func (d Decision) String() string {
	switch d {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// RelationCounter 消费关系切换事件：到MySQL里重新统计目标的计数，写回Redis
// 不做加减而是整体重算，所以重复消费、乱序消费都不会把计数算错
type RelationCounter struct {
	relationRepo repository.RelationRepository
	counters     repository.CounterCache
}

func NewRelationCounter(relationRepo repository.RelationRepository, counters repository.CounterCache) *RelationCounter {
	return &RelationCounter{relationRepo: relationRepo, counters: counters}
}

// Handle 1、反序列化事件 2、校验目标 3、重算计数并写回缓存
func (h *RelationCounter) Handle(ctx context.Context, body []byte) Decision {
	logCtx := logger.Log.WithField("body", string(body))

	var event service.RelationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logCtx.WithError(err).Error("消息JSON解析失败")
		return Drop
	}
	target := event.Target()
	if !target.Kind.Valid() || target.ID == 0 {
		logCtx.Error("消息中的目标不合法")
		return Drop
	}
	logCtx = logCtx.WithFields(logrus.Fields{"kind": target.Kind, "target_id": target.ID})

	count, err := h.relationRepo.Count(ctx, target)
	if err != nil {
		logCtx.WithError(err).Error("重新统计计数失败")
		return Requeue
	}
	if err := h.counters.Set(ctx, target, count); err != nil {
		logCtx.WithError(err).Error("写回计数缓存失败")
		return Requeue
	}
	logCtx.WithField("count", count).Debug("计数已刷新")
	return Ack
}
