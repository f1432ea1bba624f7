package service

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/pkg/errno"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertOwner(t *testing.T) {
	video := &model.Video{OwnerID: 7}
	assert.NoError(t, AssertOwner(7, video))
	assert.True(t, errors.Is(AssertOwner(8, video), errno.Forbidden))
	assert.True(t, errors.Is(AssertOwner(0, &model.Video{}), errno.Forbidden), "匿名永远不是归属者")
}

func TestAssertVisible(t *testing.T) {
	tests := []struct {
		name      string
		principal uint64
		video     model.Video
		visible   bool
	}{
		{"公开视频匿名可见", 0, model.Video{OwnerID: 1, IsPublished: true}, true},
		{"未公开视频归属者可见", 1, model.Video{OwnerID: 1}, true},
		{"未公开视频他人不可见", 2, model.Video{OwnerID: 1}, false},
		{"未公开视频匿名不可见", 0, model.Video{OwnerID: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertVisible(tt.principal, &tt.video)
			if tt.visible {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, errno.NotFound))
			}
		})
	}
}

func TestCommentLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a := e.s.addUser("alice")
	b := e.s.addUser("bob")
	v := e.s.addVideo(a.ID, true)
	hidden := e.s.addVideo(a.ID, false)

	_, err := e.comments.AddComment(ctx, b.ID, v.ID, "   ")
	assert.True(t, errors.Is(err, errno.InvalidArgument))
	_, err = e.comments.AddComment(ctx, b.ID, hidden.ID, "hi")
	assert.True(t, errors.Is(err, errno.NotFound))

	c, err := e.comments.AddComment(ctx, b.ID, v.ID, " hi ")
	require.NoError(t, err)
	assert.Equal(t, "hi", c.Content)
	assert.Equal(t, "bob", c.Owner.Username)

	_, err = e.comments.UpdateComment(ctx, a.ID, c.ID, "edited")
	assert.True(t, errors.Is(err, errno.Forbidden))
	updated, err := e.comments.UpdateComment(ctx, b.ID, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	assert.True(t, errors.Is(e.comments.DeleteComment(ctx, a.ID, c.ID), errno.Forbidden))
	require.NoError(t, e.comments.DeleteComment(ctx, b.ID, c.ID))
	assert.Equal(t, errno.NotFound.Code, errno.ConvertErr(e.comments.DeleteComment(ctx, b.ID, c.ID)).Code)
}

func TestTweetLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a := e.s.addUser("alice")
	b := e.s.addUser("bob")

	_, err := e.tweets.CreateTweet(ctx, a.ID, "")
	assert.True(t, errors.Is(err, errno.InvalidArgument))

	tw, err := e.tweets.CreateTweet(ctx, a.ID, "hello world")
	require.NoError(t, err)

	_, err = e.tweets.UpdateTweet(ctx, b.ID, tw.ID, "hijack")
	assert.True(t, errors.Is(err, errno.Forbidden))
	updated, err := e.tweets.UpdateTweet(ctx, a.ID, tw.ID, "hello again")
	require.NoError(t, err)
	assert.Equal(t, "hello again", updated.Content)

	assert.True(t, errors.Is(e.tweets.DeleteTweet(ctx, b.ID, tw.ID), errno.Forbidden))
	require.NoError(t, e.tweets.DeleteTweet(ctx, a.ID, tw.ID))
}
