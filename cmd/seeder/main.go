// cmd/seeder/main.go

package main

import (
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/model"
	"Orion_Tube/pkg/config"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	userCount         = 100
	videoCount        = 500
	commentCount      = 2000
	tweetCount        = 300
	playlistCount     = 80
	likeCount         = 3000
	subscriptionCount = 600
)

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	// --- 1. 连接数据库 ---
	// DSN和服务端读的是同一份配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	db, err := data.OpenMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// --- 2. 清理旧数据 ---
	// 注意：这将删除所有数据！redis里缓存的计数不会清，过期或者下次切换时自然刷新
	fmt.Println("🧹 正在清理旧数据...")
	if err := db.Migrator().DropTable(data.Models...); err != nil {
		log.Fatalf("❌ 旧表删除失败: %v", err)
	}
	if err := data.Migrate(db); err != nil {
		log.Fatalf("❌ 数据库迁移失败: %v", err)
	}
	fmt.Println("✅ 数据库迁移成功!")

	seedUsers(db)
	seedVideos(db)
	seedComments(db)
	seedTweets(db)
	seedPlaylists(db)
	seedLikes(db)
	seedSubscriptions(db)

	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
}

func randomID(n int) uint64 {
	// rand.Intn(n) 会生成 [0, n-1] 之间的随机数, +1 后变为 [1, n]
	return uint64(rand.Intn(n) + 1)
}

// --- 3. 创建用户 ---
func seedUsers(db *gorm.DB) {
	fmt.Println("👥 正在创建用户...")
	// 所有用户都用同一个默认密码 "password"，只加密一次
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}
	users := make([]model.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		// faker的用户名会重复，拼上序号保证唯一；用户名统一小写，和注册接口一致
		username := fmt.Sprintf("%s%d", strings.ToLower(faker.Username()), i)
		users = append(users, model.User{
			Username: username,
			FullName: faker.Name(),
			Avatar:   fmt.Sprintf("https://test.com/avatar/%s.jpg", username),
			Password: string(hashedPassword),
		})
	}
	if err := db.CreateInBatches(users, 100).Error; err != nil {
		log.Fatalf("❌ 创建用户失败: %v", err)
	}
	fmt.Printf("✅ 成功创建 %d 个用户!\n", userCount)
}

// --- 4. 创建视频 ---
func seedVideos(db *gorm.DB) {
	fmt.Println("🎬 正在创建视频...")
	videos := make([]model.Video, 0, videoCount)
	for i := 0; i < videoCount; i++ {
		videos = append(videos, model.Video{
			// 从已创建的用户中，随机选择一个作为作者
			OwnerID:     randomID(userCount),
			Title:       faker.Sentence(),  // 生成一个随机的句子作为标题
			Description: faker.Paragraph(), // 生成一个随机的段落作为简介
			VideoFile:   "https://test.com/video.mp4",
			Thumbnail:   "https://test.com/cover.jpg",
			Duration:    float64(rand.Intn(600) + 10),
			Views:       uint64(rand.Intn(10000)),
			// 大约十分之一的视频不公开
			IsPublished: rand.Intn(10) != 0,
		})
	}
	if err := db.CreateInBatches(videos, 100).Error; err != nil {
		log.Fatalf("❌ 创建视频失败: %v", err)
	}
	fmt.Printf("✅ 成功创建 %d 个视频!\n", videoCount)
}

func seedComments(db *gorm.DB) {
	fmt.Println("💬 正在创建评论...")
	comments := make([]model.Comment, 0, commentCount)
	for i := 0; i < commentCount; i++ {
		comments = append(comments, model.Comment{
			VideoID: randomID(videoCount),
			OwnerID: randomID(userCount),
			Content: faker.Sentence(),
		})
	}
	if err := db.CreateInBatches(comments, 200).Error; err != nil {
		log.Fatalf("❌ 创建评论失败: %v", err)
	}
	fmt.Printf("✅ 成功创建 %d 条评论!\n", commentCount)
}

func seedTweets(db *gorm.DB) {
	fmt.Println("🐦 正在创建推文...")
	tweets := make([]model.Tweet, 0, tweetCount)
	for i := 0; i < tweetCount; i++ {
		tweets = append(tweets, model.Tweet{
			OwnerID: randomID(userCount),
			Content: faker.Paragraph(),
		})
	}
	if err := db.CreateInBatches(tweets, 100).Error; err != nil {
		log.Fatalf("❌ 创建推文失败: %v", err)
	}
	fmt.Printf("✅ 成功创建 %d 条推文!\n", tweetCount)
}

func seedPlaylists(db *gorm.DB) {
	fmt.Println("📃 正在创建播放列表...")
	playlists := make([]model.Playlist, 0, playlistCount)
	for i := 0; i < playlistCount; i++ {
		videos := make(datatypes.JSONSlice[uint64], 0, 10)
		for j := rand.Intn(10); j > 0; j-- {
			videos = append(videos, randomID(videoCount))
		}
		playlists = append(playlists, model.Playlist{
			OwnerID:     randomID(userCount),
			Name:        faker.Word(),
			Description: faker.Sentence(),
			Videos:      videos,
		})
	}
	if err := db.CreateInBatches(playlists, 100).Error; err != nil {
		log.Fatalf("❌ 创建播放列表失败: %v", err)
	}
	fmt.Printf("✅ 成功创建 %d 个播放列表!\n", playlistCount)
}

// --- 5. 创建随机点赞 ---
func seedLikes(db *gorm.DB) {
	fmt.Println("👍 正在创建随机点赞...")
	for i := 0; i < likeCount; i++ {
		like := model.Like{LikedByID: randomID(userCount)}
		switch rand.Intn(3) {
		case 0:
			like.TargetKind, like.TargetID = model.TargetVideo, randomID(videoCount)
		case 1:
			like.TargetKind, like.TargetID = model.TargetComment, randomID(commentCount)
		default:
			like.TargetKind, like.TargetID = model.TargetTweet, randomID(tweetCount)
		}
		// 使用GORM的 OnConflict 来避免因为重复点赞而报错
		// 这会尝试插入，如果因为唯一键冲突失败，就什么都不做
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "liked_by_id"}, {Name: "target_kind"}, {Name: "target_id"}},
			DoNothing: true,
		}).Create(&like)
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个随机点赞!\n", likeCount)
}

func seedSubscriptions(db *gorm.DB) {
	fmt.Println("🔔 正在创建随机订阅...")
	for i := 0; i < subscriptionCount; i++ {
		sub := model.Subscription{SubscriberID: randomID(userCount), ChannelID: randomID(userCount)}
		// 不能订阅自己
		if sub.SubscriberID == sub.ChannelID {
			continue
		}
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscriber_id"}, {Name: "channel_id"}},
			DoNothing: true,
		}).Create(&sub)
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 个随机订阅!\n", subscriptionCount)
}
