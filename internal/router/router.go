package router

import (
	"Orion_Tube/internal/handler"
	"Orion_Tube/internal/middleware"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User         handler.UserHandler
	Video        handler.VideoHandler
	Comment      handler.CommentHandler
	Tweet        handler.TweetHandler
	Like         handler.LikeHandler
	Subscription handler.SubscriptionHandler
	Playlist     handler.PlaylistHandler
}

type Options struct {
	JWTSecret      string
	RequestTimeout time.Duration
}

// SetupRouter 路由表。上传类接口（注册、发布视频、修改视频）不挂请求超时，其余都挂
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pang",
		})
	})

	apiV1 := r.Group("/api/v1")

	// 读接口：匿名也能访问，带了token就按登录用户处理可见性
	public := apiV1.Group("/")
	public.Use(middleware.Timeout(opts.RequestTimeout), middleware.OptionalAuthMiddleware(opts.JWTSecret))
	{
		public.POST("/users/login", h.User.Login)
		public.GET("/channels/:username", h.User.GetChannelProfile)
		public.GET("/users/:user_id/tweets", h.Tweet.GetUserTweets)
		public.GET("/users/:user_id/playlists", h.Playlist.GetUserPlaylists)

		public.GET("/videos", h.Video.GetAllVideos)
		public.GET("/videos/:video_id", h.Video.GetVideoByID)
		public.GET("/videos/:video_id/comments", h.Comment.GetVideoComments)

		public.GET("/likes/count/:kind/:target_id", h.Like.GetLikeCount)

		public.GET("/subscriptions/c/:channel_id/subscribers", h.Subscription.GetChannelSubscribers)
		public.GET("/subscriptions/u/:subscriber_id/channels", h.Subscription.GetSubscribedChannels)

		public.GET("/playlists/:playlist_id", h.Playlist.GetPlaylistByID)
	}

	// 需要登录的写接口
	authorized := apiV1.Group("/")
	authorized.Use(middleware.Timeout(opts.RequestTimeout), middleware.AuthMiddleware(opts.JWTSecret))
	{
		authorized.GET("/profile", h.User.GetProfile)

		authorized.DELETE("/videos/:video_id", h.Video.DeleteVideo)
		authorized.PATCH("/videos/:video_id/publish", h.Video.TogglePublishStatus)

		authorized.POST("/videos/:video_id/comments", h.Comment.AddComment)
		authorized.PATCH("/comments/:comment_id", h.Comment.UpdateComment)
		authorized.DELETE("/comments/:comment_id", h.Comment.DeleteComment)

		authorized.POST("/tweets", h.Tweet.CreateTweet)
		authorized.PATCH("/tweets/:tweet_id", h.Tweet.UpdateTweet)
		authorized.DELETE("/tweets/:tweet_id", h.Tweet.DeleteTweet)

		authorized.POST("/likes/toggle/v/:target_id", h.Like.ToggleVideoLike)
		authorized.POST("/likes/toggle/c/:target_id", h.Like.ToggleCommentLike)
		authorized.POST("/likes/toggle/t/:target_id", h.Like.ToggleTweetLike)
		authorized.GET("/likes/videos", h.Like.GetLikedVideos)

		authorized.POST("/subscriptions/c/:channel_id", h.Subscription.ToggleSubscription)

		authorized.POST("/playlists", h.Playlist.CreatePlaylist)
		authorized.PATCH("/playlists/:playlist_id", h.Playlist.UpdatePlaylist)
		authorized.DELETE("/playlists/:playlist_id", h.Playlist.DeletePlaylist)
		authorized.PATCH("/playlists/:playlist_id/videos/:video_id", h.Playlist.AddVideoToPlaylist)
		authorized.DELETE("/playlists/:playlist_id/videos/:video_id", h.Playlist.RemoveVideoFromPlaylist)
	}

	// 上传文件耗时不可控，不挂超时
	apiV1.POST("/users/register", h.User.Register)
	uploads := apiV1.Group("/")
	uploads.Use(middleware.AuthMiddleware(opts.JWTSecret))
	{
		uploads.POST("/videos", h.Video.PublishVideo)
		uploads.PATCH("/videos/:video_id", h.Video.UpdateVideo)
	}

	return r
}
