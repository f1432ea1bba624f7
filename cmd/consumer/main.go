package main

import (
	"Orion_Tube/internal/consumer"
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/repository"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/config"
	"Orion_Tube/pkg/logger"
	"Orion_Tube/pkg/rabbitmq"
	"Orion_Tube/pkg/redis"
	"context"
	"log"
	"os/signal"
	"syscall"
)

const prefetch = 16

// 消费者进程：连接mysql，redis，rabbitMQ，收到关系切换事件后到mysql重算计数，写回redis
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	logger.InitLogger(cfg.LogLevel, cfg.LogFile)

	// 连接数据库
	db, err := data.OpenMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	redisClient, err := redis.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到Redis: %v", err)
	}
	defer redisClient.Close()
	// 连接RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQ)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()
	// 消费者可能比服务端先启动，队列两边都声明一次
	if err := rabbitmq.DeclareQueue(rabbitMQConn, service.QueueRelation); err != nil {
		logger.Log.Fatalf("声明队列失败: %v", err)
	}

	counter := consumer.NewRelationCounter(repository.NewRelationRepository(db), repository.NewCounterCache(redisClient))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	// 开始消费消息，阻塞到收到退出信号或者连接断开
	if err := consumer.Run(ctx, rabbitMQConn, service.QueueRelation, prefetch, counter.Handle); err != nil {
		logger.Log.Errorf("消费者异常退出: %v", err)
		return
	}
	logger.Log.Info("消费者已退出")
}
