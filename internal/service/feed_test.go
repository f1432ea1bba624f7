package service

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/pipeline"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/errno"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedVideoCatalog_PageBoundary(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a := e.s.addUser("alice")
	for i := 0; i < 25; i++ {
		e.s.addVideo(a.ID, true)
	}
	e.s.addVideo(a.ID, false)

	page, err := e.feeds.VideoCatalog(ctx, repository.VideoQuery{Params: pipeline.Params{Page: 3, Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, page.Docs, 5)
	assert.Equal(t, int64(25), page.TotalDocs)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasPrevPage)
	assert.False(t, page.HasNextPage)
	require.NotNil(t, page.PrevPage)
	assert.Equal(t, 2, *page.PrevPage)
	assert.Nil(t, page.NextPage)

	// 归属者自己能看到未公开的那一个
	page, err = e.feeds.VideoCatalog(ctx, repository.VideoQuery{Params: pipeline.Params{Page: 1, Limit: 10}, Viewer: a.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(26), page.TotalDocs)

	// 超出范围是空页而不是错误
	page, err = e.feeds.VideoCatalog(ctx, repository.VideoQuery{Params: pipeline.Params{Page: 9, Limit: 10}})
	require.NoError(t, err)
	assert.Empty(t, page.Docs)
}

func TestFeedVideoComments(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a := e.s.addUser("alice")
	b := e.s.addUser("bob")
	public := e.s.addVideo(a.ID, true)
	hidden := e.s.addVideo(a.ID, false)

	params := pipeline.Params{Page: 1, Limit: 10}
	page, err := e.feeds.VideoComments(ctx, b.ID, public.ID, params)
	require.NoError(t, err)
	assert.Empty(t, page.Docs)
	assert.Zero(t, page.TotalDocs)

	_, err = e.comments.AddComment(ctx, b.ID, public.ID, "first")
	require.NoError(t, err)
	page, err = e.feeds.VideoComments(ctx, 0, public.ID, params)
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "first", page.Docs[0].Content)

	_, err = e.feeds.VideoComments(ctx, b.ID, hidden.ID, params)
	assert.True(t, errors.Is(err, errno.NotFound))
}

func TestFeedLikedVideos(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a := e.s.addUser("alice")
	b := e.s.addUser("bob")
	v := e.s.addVideo(a.ID, true)

	_, err := e.feeds.LikedVideos(ctx, 0, pipeline.Params{Page: 1, Limit: 10})
	assert.True(t, errors.Is(err, errno.Unauthorized))

	_, err = e.relations.Toggle(ctx, b.ID, model.TargetVideo, v.ID)
	require.NoError(t, err)

	page, err := e.feeds.LikedVideos(ctx, b.ID, pipeline.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "likedVideos", page.GroupName())
	assert.Equal(t, "alice", page.Docs[0].OwnerUsername)
}

func TestFeedSubscribers_TotalCount(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	c := e.s.addUser("carol")
	for _, name := range []string{"a", "b", "d"} {
		u := e.s.addUser(name)
		_, err := e.relations.Toggle(ctx, u.ID, model.TargetChannel, c.ID)
		require.NoError(t, err)
	}

	page, err := e.feeds.Subscribers(ctx, c.ID, pipeline.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Docs, 2)

	raw, err := json.Marshal(page)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.EqualValues(t, 3, body["totalCount"])
	assert.Contains(t, body, "subscribers")
	assert.NotContains(t, body, "docs")

	_, err = e.feeds.Subscribers(ctx, 9999, pipeline.Params{Page: 1, Limit: 2})
	assert.Equal(t, errno.NotFound.Code, errno.ConvertErr(err).Code)
}

func TestFeedUserTweetsAndPlaylists(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a := e.s.addUser("alice")
	_, err := e.tweets.CreateTweet(ctx, a.ID, "hello")
	require.NoError(t, err)
	e.s.addPlaylist(a.ID)

	tweets, err := e.feeds.UserTweets(ctx, a.ID, pipeline.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, tweets.Docs, 1)

	playlists, err := e.feeds.UserPlaylists(ctx, a.ID, pipeline.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, playlists.Docs, 1)

	_, err = e.feeds.UserTweets(ctx, 0, pipeline.Params{Page: 1, Limit: 10})
	assert.True(t, errors.Is(err, errno.InvalidArgument))
}
