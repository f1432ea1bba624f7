package repository

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/pipeline"
	"context"

	"gorm.io/gorm"
)

// VideoSortFields 视频列表允许的排序字段，键是接口参数，值是列名
var VideoSortFields = map[string]string{
	"createdAt": "videos.created_at",
	"updatedAt": "videos.updated_at",
	"title":     "videos.title",
	"duration":  "videos.duration",
	"views":     "videos.views",
}

// VideoQuery 视频目录的查询条件
type VideoQuery struct {
	Params   pipeline.Params
	Query    string // 标题/简介的模糊搜索，为空不过滤
	SortBy   string
	SortType string
	OwnerID  uint64 // 0表示不限归属者
	Viewer   uint64 // 当前用户，0表示匿名
}

// FeedRepository 所有列表查询，每种列表都是一条查询计划，一次执行完成（计数和取数并发）
type FeedRepository interface {
	VideoCatalog(ctx context.Context, q VideoQuery) (*pipeline.Page[model.VideoRow], error)
	VideoComments(ctx context.Context, videoID uint64, params pipeline.Params) (*pipeline.Page[model.CommentRow], error)
	LikedVideos(ctx context.Context, principal uint64, params pipeline.Params) (*pipeline.Page[model.VideoRow], error)
	Subscribers(ctx context.Context, channelID uint64, params pipeline.Params) (*pipeline.Page[model.SubscriptionRow], error)
	SubscribedChannels(ctx context.Context, subscriberID uint64, params pipeline.Params) (*pipeline.Page[model.SubscriptionRow], error)
	UserTweets(ctx context.Context, ownerID uint64, params pipeline.Params) (*pipeline.Page[model.TweetRow], error)
	UserPlaylists(ctx context.Context, ownerID uint64, params pipeline.Params) (*pipeline.Page[model.Playlist], error)
	// VisibleVideosByIDs 一次查询取出一批视频，已删除的和viewer看不到的不会返回，顺序不保证
	VisibleVideosByIDs(ctx context.Context, ids []uint64, viewer uint64) ([]model.VideoRow, error)
}

type feedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

// visibleTo 公开的，或者是viewer自己的；匿名用户viewer为0，只能看到公开的
func visibleTo(viewer uint64) pipeline.Stage {
	return pipeline.Where("visible", "(videos.is_published = ? OR videos.owner_id = ?)", true, viewer)
}

// VideoCatalogPlan 视频目录：归属者过滤 -> 可见性 -> 搜索 -> 排序 -> 归属者投影 -> 分页
func VideoCatalogPlan(q VideoQuery) (*pipeline.Plan, error) {
	sort, err := pipeline.ResolveSort(VideoSortFields, q.SortBy, q.SortType)
	if err != nil {
		return nil, err
	}
	plan := pipeline.New(&model.Video{}, "videos")
	if q.OwnerID != 0 {
		plan.Then(pipeline.Match("videos.owner_id", q.OwnerID))
	}
	plan.Then(
		visibleTo(q.Viewer),
		pipeline.TextSearch(q.Query, "videos.title", "videos.description"),
		sort,
		pipeline.JoinOwner("videos.owner_id", "videos.*"),
	).Paginate(q.Params)
	return plan, nil
}

func (r *feedRepository) VideoCatalog(ctx context.Context, q VideoQuery) (*pipeline.Page[model.VideoRow], error) {
	plan, err := VideoCatalogPlan(q)
	if err != nil {
		return nil, err
	}
	return pipeline.Execute[model.VideoRow](ctx, r.db, plan)
}

// VideoCommentsPlan 某个视频下的评论，带评论者的精简信息
func VideoCommentsPlan(videoID uint64, params pipeline.Params) *pipeline.Plan {
	return pipeline.New(&model.Comment{}, "comments").
		Then(
			pipeline.Match("comments.video_id", videoID),
			pipeline.JoinOwner("comments.owner_id", "comments.*"),
		).
		Paginate(params)
}

func (r *feedRepository) VideoComments(ctx context.Context, videoID uint64, params pipeline.Params) (*pipeline.Page[model.CommentRow], error) {
	return pipeline.Execute[model.CommentRow](ctx, r.db, VideoCommentsPlan(videoID, params))
}

// LikedVideosPlan 点赞过的视频：点赞行 -> 连接视频（删掉的自然过滤掉）-> 可见性 -> 按点赞先后倒序 -> 视频作者投影 -> 折叠到视频
func LikedVideosPlan(principal uint64, params pipeline.Params) *pipeline.Plan {
	return pipeline.New(&model.Like{}, "likes").
		Then(
			pipeline.Match("likes.liked_by_id", principal),
			pipeline.Match("likes.target_kind", model.TargetVideo),
			pipeline.InnerJoin("videos", "JOIN videos ON videos.id = likes.target_id AND videos.deleted_at IS NULL"),
			visibleTo(principal),
			pipeline.SortBy("liked_seq", true),
			pipeline.JoinOwner("videos.owner_id", "videos.*", "likes.id AS liked_seq"),
			pipeline.Group("likedVideos", "videos.id"),
		).
		Paginate(params)
}

func (r *feedRepository) LikedVideos(ctx context.Context, principal uint64, params pipeline.Params) (*pipeline.Page[model.VideoRow], error) {
	return pipeline.Execute[model.VideoRow](ctx, r.db, LikedVideosPlan(principal, params))
}

// SubscribersPlan 频道的粉丝列表，投影的是订阅者
func SubscribersPlan(channelID uint64, params pipeline.Params) *pipeline.Plan {
	return pipeline.New(&model.Subscription{}, "subscriptions").
		Then(
			pipeline.Match("subscriptions.channel_id", channelID),
			pipeline.JoinOwner("subscriptions.subscriber_id", "subscriptions.*"),
			pipeline.Group("subscribers", "subscriptions.subscriber_id"),
		).
		Paginate(params)
}

func (r *feedRepository) Subscribers(ctx context.Context, channelID uint64, params pipeline.Params) (*pipeline.Page[model.SubscriptionRow], error) {
	return pipeline.Execute[model.SubscriptionRow](ctx, r.db, SubscribersPlan(channelID, params))
}

// SubscribedChannelsPlan 用户订阅的频道列表，投影的是频道主
func SubscribedChannelsPlan(subscriberID uint64, params pipeline.Params) *pipeline.Plan {
	return pipeline.New(&model.Subscription{}, "subscriptions").
		Then(
			pipeline.Match("subscriptions.subscriber_id", subscriberID),
			pipeline.JoinOwner("subscriptions.channel_id", "subscriptions.*"),
			pipeline.Group("subscribedChannels", "subscriptions.channel_id"),
		).
		Paginate(params)
}

func (r *feedRepository) SubscribedChannels(ctx context.Context, subscriberID uint64, params pipeline.Params) (*pipeline.Page[model.SubscriptionRow], error) {
	return pipeline.Execute[model.SubscriptionRow](ctx, r.db, SubscribedChannelsPlan(subscriberID, params))
}

func (r *feedRepository) UserTweets(ctx context.Context, ownerID uint64, params pipeline.Params) (*pipeline.Page[model.TweetRow], error) {
	plan := pipeline.New(&model.Tweet{}, "tweets").
		Then(
			pipeline.Match("tweets.owner_id", ownerID),
			pipeline.JoinOwner("tweets.owner_id", "tweets.*"),
		).
		Paginate(params)
	return pipeline.Execute[model.TweetRow](ctx, r.db, plan)
}

func (r *feedRepository) UserPlaylists(ctx context.Context, ownerID uint64, params pipeline.Params) (*pipeline.Page[model.Playlist], error) {
	plan := pipeline.New(&model.Playlist{}, "playlists").
		Then(pipeline.Match("playlists.owner_id", ownerID)).
		Paginate(params)
	return pipeline.Execute[model.Playlist](ctx, r.db, plan)
}

func (r *feedRepository) VisibleVideosByIDs(ctx context.Context, ids []uint64, viewer uint64) ([]model.VideoRow, error) {
	rows := []model.VideoRow{}
	if len(ids) == 0 {
		return rows, nil
	}
	plan := pipeline.New(&model.Video{}, "videos").
		Then(
			pipeline.MatchIn("videos.id", ids),
			visibleTo(viewer),
			pipeline.JoinOwner("videos.owner_id", "videos.*"),
		)
	if err := plan.BuildQuery(r.db.WithContext(ctx)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
