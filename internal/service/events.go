package service

import (
	"Orion_Tube/internal/model"
	"context"
)

const (
	// 遵循：项目名.业务领域.实体/功能
	QueueRelation = "orion.relation.queue"
)

// RelationEvent 一次成功的切换，消费者据此重新统计目标的计数
type RelationEvent struct {
	PrincipalID uint64           `json:"principal_id"`
	Kind        model.TargetKind `json:"kind"`
	TargetID    uint64           `json:"target_id"`
	Active      bool             `json:"active"`
}

func (e RelationEvent) Target() model.Target {
	return model.Target{Kind: e.Kind, ID: e.TargetID}
}

// EventPublisher 消息投递，生产环境是RabbitMQ
type EventPublisher interface {
	Publish(ctx context.Context, queue string, msg any) error
}
