package service

import (
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/pipeline"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/lock"
	"Orion_Tube/pkg/oss"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"gorm.io/gorm"
)

// store 所有fake仓库共享的内存数据
type store struct {
	mu sync.Mutex

	nextID    uint64
	users     map[uint64]model.User
	videos    map[uint64]model.Video
	comments  map[uint64]model.Comment
	tweets    map[uint64]model.Tweet
	playlists map[uint64]model.Playlist

	// 关系行允许出现重复，这样并发问题能被测出来
	relations []model.Relation
	maxRows   map[string]int
}

func newStore() *store {
	return &store{
		users:     map[uint64]model.User{},
		videos:    map[uint64]model.Video{},
		comments:  map[uint64]model.Comment{},
		tweets:    map[uint64]model.Tweet{},
		playlists: map[uint64]model.Playlist{},
		maxRows:   map[string]int{},
	}
}

func (s *store) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *store) addUser(username string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{Username: username, FullName: "Full " + username, Avatar: "https://cdn/" + username + ".png"}
	u.ID = s.id()
	s.users[u.ID] = u
	return u
}

func (s *store) addVideo(ownerID uint64, published bool) model.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := model.Video{OwnerID: ownerID, Title: "video", Description: "desc", IsPublished: published}
	v.ID = s.id()
	s.videos[v.ID] = v
	return v
}

func (s *store) addPlaylist(ownerID uint64, videos ...uint64) model.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Playlist{OwnerID: ownerID, Name: "list", Description: "my list", Videos: append([]uint64{}, videos...)}
	p.ID = s.id()
	s.playlists[p.ID] = p
	return p
}

func (s *store) rowCount(rel model.Relation) int {
	n := 0
	for _, r := range s.relations {
		if r == rel {
			n++
		}
	}
	return n
}

func relKey(rel model.Relation) string {
	return fmt.Sprintf("%d:%s:%d", rel.Principal, rel.Target.Kind, rel.Target.ID)
}

func withOwner(s *store, ownerID uint64) model.User {
	u := s.users[ownerID]
	return model.User{BaseModel: u.BaseModel, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// ---- users ----

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return errors.New("duplicate username")
		}
	}
	user.ID = r.s.id()
	r.s.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, userID uint64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ---- videos ----

type fakeVideoRepo struct {
	s     *store
	cache sync.Map
	finds int32
}

func (r *fakeVideoRepo) Create(_ context.Context, video *model.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	video.ID = r.s.id()
	r.s.videos[video.ID] = *video
	return nil
}

func (r *fakeVideoRepo) FindByID(_ context.Context, videoID uint64) (*model.Video, error) {
	atomic.AddInt32(&r.finds, 1)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[videoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	v.Owner = withOwner(r.s, v.OwnerID)
	return &v, nil
}

func (r *fakeVideoRepo) FindByIDForUpdate(ctx context.Context, videoID uint64) (*model.Video, error) {
	return r.FindByID(ctx, videoID)
}

func (r *fakeVideoRepo) Update(_ context.Context, videoID uint64, fields map[string]any) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[videoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, val := range fields {
		switch k {
		case "title":
			v.Title = val.(string)
		case "description":
			v.Description = val.(string)
		case "thumbnail":
			v.Thumbnail = val.(string)
		case "is_published":
			v.IsPublished = val.(bool)
		}
	}
	r.s.videos[videoID] = v
	return nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, videoID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.videos, videoID)
	return nil
}

func (r *fakeVideoRepo) IncrementViews(_ context.Context, videoID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v := r.s.videos[videoID]
	v.Views++
	r.s.videos[videoID] = v
	return nil
}

func (r *fakeVideoRepo) GetVideoCache(_ context.Context, videoID uint64) (*model.Video, error) {
	v, ok := r.cache.Load(videoID)
	if !ok {
		return nil, nil
	}
	video := v.(model.Video)
	return &video, nil
}

func (r *fakeVideoRepo) SetVideoCache(_ context.Context, video *model.Video) error {
	r.cache.Store(video.ID, *video)
	return nil
}

func (r *fakeVideoRepo) DelVideoCache(_ context.Context, videoID uint64) error {
	r.cache.Delete(videoID)
	return nil
}

func (r *fakeVideoRepo) WithTx(*gorm.DB) repository.VideoRepository { return r }

// ---- comments ----

type fakeCommentRepo struct{ s *store }

func (r *fakeCommentRepo) Create(_ context.Context, c *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id()
	r.s.comments[c.ID] = *c
	return nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id uint64) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c.Owner = withOwner(r.s, c.OwnerID)
	return &c, nil
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, id uint64, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.s.comments[id]
	c.Content = content
	r.s.comments[id] = c
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByVideo(_ context.Context, videoID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.comments {
		if c.VideoID == videoID {
			delete(r.s.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) WithTx(*gorm.DB) repository.CommentRepository { return r }

// ---- tweets ----

type fakeTweetRepo struct{ s *store }

func (r *fakeTweetRepo) Create(_ context.Context, t *model.Tweet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.id()
	r.s.tweets[t.ID] = *t
	return nil
}

func (r *fakeTweetRepo) FindByID(_ context.Context, id uint64) (*model.Tweet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	t.Owner = withOwner(r.s, t.OwnerID)
	return &t, nil
}

func (r *fakeTweetRepo) UpdateContent(_ context.Context, id uint64, content string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := r.s.tweets[id]
	t.Content = content
	r.s.tweets[id] = t
	return nil
}

func (r *fakeTweetRepo) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tweets, id)
	return nil
}

// ---- playlists ----

// fakePlaylistRepo 读和写之间会让出CPU，没有串行保护时并发修改会丢更新
type fakePlaylistRepo struct{ s *store }

func (r *fakePlaylistRepo) Create(_ context.Context, p *model.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	stored := *p
	stored.Videos = append([]uint64{}, p.Videos...)
	r.s.playlists[p.ID] = stored
	return nil
}

func (r *fakePlaylistRepo) FindByID(_ context.Context, id uint64) (*model.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.Videos = append([]uint64{}, p.Videos...)
	return &p, nil
}

func (r *fakePlaylistRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*model.Playlist, error) {
	p, err := r.FindByID(ctx, id)
	runtime.Gosched()
	return p, err
}

func (r *fakePlaylistRepo) Save(_ context.Context, p *model.Playlist) error {
	runtime.Gosched()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *p
	stored.Videos = append([]uint64{}, p.Videos...)
	r.s.playlists[p.ID] = stored
	return nil
}

func (r *fakePlaylistRepo) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.playlists, id)
	return nil
}

func (r *fakePlaylistRepo) WithTx(*gorm.DB) repository.PlaylistRepository { return r }

// ---- relations ----

// fakeRelationRepo 故意做成“先查后写”的非原子实现，靠服务层的按key加锁保证正确
type fakeRelationRepo struct{ s *store }

func (r *fakeRelationRepo) Toggle(_ context.Context, rel model.Relation) (bool, error) {
	r.s.mu.Lock()
	exists := r.s.rowCount(rel) > 0
	r.s.mu.Unlock()

	runtime.Gosched()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if exists {
		kept := r.s.relations[:0]
		for _, row := range r.s.relations {
			if row != rel {
				kept = append(kept, row)
			}
		}
		r.s.relations = kept
		return false, nil
	}
	r.s.relations = append(r.s.relations, rel)
	if n := r.s.rowCount(rel); n > r.s.maxRows[relKey(rel)] {
		r.s.maxRows[relKey(rel)] = n
	}
	return true, nil
}

func (r *fakeRelationRepo) Exists(_ context.Context, rel model.Relation) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.rowCount(rel) > 0, nil
}

func (r *fakeRelationRepo) Count(_ context.Context, target model.Target) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, row := range r.s.relations {
		if row.Target == target {
			n++
		}
	}
	return n, nil
}

func (r *fakeRelationRepo) CountByPrincipal(_ context.Context, principal uint64, kind model.TargetKind) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, row := range r.s.relations {
		if row.Principal == principal && row.Target.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (r *fakeRelationRepo) ListTargets(_ context.Context, principal uint64, kind model.TargetKind) ([]uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := []uint64{}
	for _, row := range r.s.relations {
		if row.Principal == principal && row.Target.Kind == kind {
			ids = append(ids, row.Target.ID)
		}
	}
	return ids, nil
}

func (r *fakeRelationRepo) WithTx(*gorm.DB) repository.RelationRepository { return r }

// ---- feeds ----

type fakeFeedRepo struct{ s *store }

func (r *fakeFeedRepo) visibleVideos(viewer uint64, filter func(model.Video) bool) []model.VideoRow {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []model.VideoRow{}
	for _, v := range r.s.videos {
		if (v.IsPublished || v.OwnerID == viewer) && filter(v) {
			u := r.s.users[v.OwnerID]
			rows = append(rows, model.VideoRow{Video: v, OwnerProjection: model.OwnerProjection{
				OwnerUsername: u.Username, OwnerFullName: u.FullName, OwnerAvatar: u.Avatar,
			}})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func (r *fakeFeedRepo) VideoCatalog(_ context.Context, q repository.VideoQuery) (*pipeline.Page[model.VideoRow], error) {
	rows := r.visibleVideos(q.Viewer, func(v model.Video) bool { return q.OwnerID == 0 || v.OwnerID == q.OwnerID })
	return pipeline.Slice(rows, q.Params), nil
}

func (r *fakeFeedRepo) VideoComments(_ context.Context, videoID uint64, params pipeline.Params) (*pipeline.Page[model.CommentRow], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []model.CommentRow{}
	for _, c := range r.s.comments {
		if c.VideoID == videoID {
			rows = append(rows, model.CommentRow{Comment: c})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return pipeline.Slice(rows, params), nil
}

func (r *fakeFeedRepo) LikedVideos(_ context.Context, principal uint64, params pipeline.Params) (*pipeline.Page[model.VideoRow], error) {
	r.s.mu.Lock()
	liked := map[uint64]bool{}
	for _, row := range r.s.relations {
		if row.Principal == principal && row.Target.Kind == model.TargetVideo {
			liked[row.Target.ID] = true
		}
	}
	r.s.mu.Unlock()
	rows := r.visibleVideos(principal, func(v model.Video) bool { return liked[v.ID] })
	return pipeline.Slice(rows, params).WithGroup("likedVideos"), nil
}

func (r *fakeFeedRepo) subscriptions(params pipeline.Params, match func(model.Relation) bool) *pipeline.Page[model.SubscriptionRow] {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []model.SubscriptionRow{}
	for _, row := range r.s.relations {
		if row.Target.Kind == model.TargetChannel && match(row) {
			rows = append(rows, model.SubscriptionRow{Subscription: model.Subscription{SubscriberID: row.Principal, ChannelID: row.Target.ID}})
		}
	}
	return pipeline.Slice(rows, params)
}

func (r *fakeFeedRepo) Subscribers(_ context.Context, channelID uint64, params pipeline.Params) (*pipeline.Page[model.SubscriptionRow], error) {
	return r.subscriptions(params, func(rel model.Relation) bool { return rel.Target.ID == channelID }).WithGroup("subscribers"), nil
}

func (r *fakeFeedRepo) SubscribedChannels(_ context.Context, subscriberID uint64, params pipeline.Params) (*pipeline.Page[model.SubscriptionRow], error) {
	return r.subscriptions(params, func(rel model.Relation) bool { return rel.Principal == subscriberID }).WithGroup("subscribedChannels"), nil
}

func (r *fakeFeedRepo) UserTweets(_ context.Context, ownerID uint64, params pipeline.Params) (*pipeline.Page[model.TweetRow], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []model.TweetRow{}
	for _, t := range r.s.tweets {
		if t.OwnerID == ownerID {
			rows = append(rows, model.TweetRow{Tweet: t})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return pipeline.Slice(rows, params), nil
}

func (r *fakeFeedRepo) UserPlaylists(_ context.Context, ownerID uint64, params pipeline.Params) (*pipeline.Page[model.Playlist], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := []model.Playlist{}
	for _, p := range r.s.playlists {
		if p.OwnerID == ownerID {
			rows = append(rows, p)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return pipeline.Slice(rows, params), nil
}

func (r *fakeFeedRepo) VisibleVideosByIDs(_ context.Context, ids []uint64, viewer uint64) ([]model.VideoRow, error) {
	want := map[uint64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return r.visibleVideos(viewer, func(v model.Video) bool { return want[v.ID] }), nil
}

// ---- collaborators ----

type fakeCounterCache struct {
	mu     sync.Mutex
	counts map[model.Target]int64
}

func newFakeCounterCache() *fakeCounterCache {
	return &fakeCounterCache{counts: map[model.Target]int64{}}
}

func (c *fakeCounterCache) Get(_ context.Context, target model.Target) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.counts[target]
	return n, ok, nil
}

func (c *fakeCounterCache) Set(_ context.Context, target model.Target, count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[target] = count
	return nil
}

func (c *fakeCounterCache) Invalidate(_ context.Context, target model.Target) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, target)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []RelationEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, queue string, msg any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if e, ok := msg.(RelationEvent); ok && queue == QueueRelation {
		p.events = append(p.events, e)
	}
	return nil
}

type fakeUploader struct {
	err   error
	calls int32
}

func (u *fakeUploader) Upload(_ context.Context, localPath string) (*oss.UploadResult, error) {
	atomic.AddInt32(&u.calls, 1)
	if u.err != nil {
		return nil, u.err
	}
	return &oss.UploadResult{URL: "https://cdn.test/orion-tube/" + localPath, Duration: 12.5}, nil
}

// fakeUnitOfWork 直接把fake仓库交给fn，不做回滚
type fakeUnitOfWork struct {
	repos *data.TransactionalRepositories
}

func (u *fakeUnitOfWork) Execute(_ context.Context, fn func(repos *data.TransactionalRepositories) error) error {
	return fn(u.repos)
}

// env 一套连好的服务
type env struct {
	s         *store
	videoRepo *fakeVideoRepo
	counters  *fakeCounterCache
	publisher *fakePublisher
	uploader  *fakeUploader

	relations RelationService
	feeds     FeedService
	playlists PlaylistService
	videos    VideoService
	comments  CommentService
	tweets    TweetService
	users     UserService
}

func newEnv() *env {
	s := newStore()
	userRepo := &fakeUserRepo{s: s}
	videoRepo := &fakeVideoRepo{s: s}
	commentRepo := &fakeCommentRepo{s: s}
	tweetRepo := &fakeTweetRepo{s: s}
	playlistRepo := &fakePlaylistRepo{s: s}
	relationRepo := &fakeRelationRepo{s: s}
	feedRepo := &fakeFeedRepo{s: s}
	counters := newFakeCounterCache()
	publisher := &fakePublisher{}
	uploader := &fakeUploader{}
	locker := lock.NewLocalLocker()
	uow := &fakeUnitOfWork{repos: &data.TransactionalRepositories{
		VideoRepo:    videoRepo,
		PlaylistRepo: playlistRepo,
		CommentRepo:  commentRepo,
		RelationRepo: relationRepo,
	}}

	relations := NewRelationService(relationRepo, videoRepo, commentRepo, tweetRepo, userRepo, counters, locker, publisher)
	return &env{
		s:         s,
		videoRepo: videoRepo,
		counters:  counters,
		publisher: publisher,
		uploader:  uploader,
		relations: relations,
		feeds:     NewFeedService(feedRepo, videoRepo, userRepo),
		playlists: NewPlaylistService(playlistRepo, feedRepo, uow, locker),
		videos:    NewVideoService(videoRepo, relations, uow, uploader),
		comments:  NewCommentService(commentRepo, videoRepo),
		tweets:    NewTweetService(tweetRepo),
		users:     NewUserService(userRepo, relations, uploader, "test-secret"),
	}
}
