package main

import (
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/handler"
	"Orion_Tube/internal/repository"
	"Orion_Tube/internal/router"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/config"
	"Orion_Tube/pkg/lock"
	"Orion_Tube/pkg/logger"
	"Orion_Tube/pkg/oss"
	"Orion_Tube/pkg/rabbitmq"
	"Orion_Tube/pkg/redis"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// 加载配置(.env + 环境变量)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	// 初始化logger
	logger.InitLogger(cfg.LogLevel, cfg.LogFile)
	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET_KEY 未配置")
	}

	// 初始化Redis
	redisClient, err := redis.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	defer redisClient.Close()
	logger.Log.Info("Redis连接成功")

	// 初始化RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQ)
	if err != nil {
		logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close() // 确保程序退出时关闭连接
	if err := rabbitmq.DeclareQueue(rabbitMQConn, service.QueueRelation); err != nil {
		logger.Log.Fatalf("声明队列失败: %v", err)
	}
	logger.Log.Info("RabbitMQ连接成功")

	db, err := data.OpenMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Log.Fatalf("无法连接到数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")
	if err := data.Migrate(db); err != nil {
		logger.Log.Fatalf("数据库迁移失败: %v", err)
	}
	logger.Log.Info("数据库迁移成功")

	// 初始化对象存储，上传的临时文件先落在本地目录
	uploader, err := oss.NewMinioUploader(cfg.Minio)
	if err != nil {
		logger.Log.Fatalf("无法创建MinIO客户端: %v", err)
	}
	bucketCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = uploader.EnsureBucket(bucketCtx)
	cancel()
	if err != nil {
		logger.Log.Fatalf("MinIO存储桶检查失败: %v", err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		logger.Log.Fatalf("无法创建上传目录: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	feedRepo := repository.NewFeedRepository(db)
	counters := repository.NewCounterCache(redisClient)

	uow := data.NewUnitOfWork(db, videoRepo, playlistRepo, commentRepo, relationRepo)
	// 多实例部署，关系切换和播放列表修改用redis分布式锁
	locker := lock.NewRedisLocker(redisClient, cfg.LockExpiry)
	publisher := rabbitmq.NewPublisher(rabbitMQConn)

	relationService := service.NewRelationService(relationRepo, videoRepo, commentRepo, tweetRepo, userRepo, counters, locker, publisher)
	userService := service.NewUserService(userRepo, relationService, uploader, cfg.JWTSecret)
	videoService := service.NewVideoService(videoRepo, relationService, uow, uploader)
	commentService := service.NewCommentService(commentRepo, videoRepo)
	tweetService := service.NewTweetService(tweetRepo)
	playlistService := service.NewPlaylistService(playlistRepo, feedRepo, uow, locker)
	feedService := service.NewFeedService(feedRepo, videoRepo, userRepo)

	handlers := router.Handlers{
		User:         handler.NewUserHandler(userService, cfg.UploadDir),
		Video:        handler.NewVideoHandler(videoService, feedService, cfg.UploadDir, cfg.PageMaxLimit),
		Comment:      handler.NewCommentHandler(commentService, feedService, cfg.PageMaxLimit),
		Tweet:        handler.NewTweetHandler(tweetService, feedService, cfg.PageMaxLimit),
		Like:         handler.NewLikeHandler(relationService, feedService, cfg.PageMaxLimit),
		Subscription: handler.NewSubscriptionHandler(relationService, feedService, cfg.PageMaxLimit),
		Playlist:     handler.NewPlaylistHandler(playlistService, feedService, cfg.PageMaxLimit),
	}
	r := router.SetupRouter(handlers, router.Options{
		JWTSecret:      cfg.JWTSecret,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}
	go func() {
		logger.Log.Printf("服务器将在: %s 启动", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 优雅退出：收到信号后不再接新请求，等正在处理的请求结束
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Log.Info("正在关闭服务器...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("服务器关闭失败: %v", err)
	}
	logger.Log.Info("服务器已退出")
}
