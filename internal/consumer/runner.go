package consumer

import (
	"Orion_Tube/pkg/logger"
	"context"

	"github.com/streadway/amqp"
)

// HandlerFunc 处理一条消息的消息体，返回对mq的回复
type HandlerFunc func(ctx context.Context, body []byte) Decision

// Run 消费者循环：1、通过mq的TCP连接创建channel 2、通过ch注册消费者 3、持续消费直到ctx结束 4、根据处理结果Ack/Nack
// 同一条消息重投之后还是要求重试，就丢掉，避免毒消息无限循环
func Run(ctx context.Context, conn *amqp.Connection, queue string, prefetch int, handle HandlerFunc) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return err
	}
	msgs, err := ch.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack: 手动确认，处理完再回复
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}
	logger.Log.WithField("queue", queue).Info(" [*] 等待消息中. 按 CTRL+C 退出")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			// msgs不是切片，而是通道channel，连接断开时会被关闭
			if !ok {
				return amqp.ErrClosed
			}
			decision := handle(ctx, d.Body)
			if decision == Requeue && d.Redelivered {
				decision = Drop
			}
			logger.Log.WithField("queue", queue).WithField("redelivered", d.Redelivered).
				WithField("decision", decision.String()).Debug("消息处理完成")

			switch decision {
			case Ack:
				_ = d.Ack(false)
			case Requeue:
				_ = d.Nack(false, true)
			default:
				_ = d.Nack(false, false)
			}
		}
	}
}
