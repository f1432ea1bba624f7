package service

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/pkg/errno"
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	user, err := e.users.Register(ctx, RegisterInput{Username: " Alice ", FullName: "Alice A", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret", user.Password)

	_, err = e.users.Register(ctx, RegisterInput{Username: "ALICE", FullName: "Other", Password: "x"})
	assert.True(t, errors.Is(err, errno.Conflict))

	_, _, err = e.users.Login(ctx, "alice", "wrong")
	assert.True(t, errors.Is(err, errno.Unauthorized))
	_, _, err = e.users.Login(ctx, "nobody", "secret")
	assert.True(t, errors.Is(err, errno.Unauthorized))

	token, logged, err := e.users.Login(ctx, "Alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(user.ID), claims["user_id"])
	assert.Equal(t, "alice", claims["username"])
}

func TestUserRegister_Validation(t *testing.T) {
	e := newEnv()
	_, err := e.users.Register(context.Background(), RegisterInput{Username: "bob", Password: "x"})
	assert.True(t, errors.Is(err, errno.InvalidArgument))
	_, _, err = e.users.Login(context.Background(), "", "")
	assert.True(t, errors.Is(err, errno.InvalidArgument))
}

func TestUserRegister_AvatarUpload(t *testing.T) {
	e := newEnv()
	user, err := e.users.Register(context.Background(), RegisterInput{Username: "bob", FullName: "Bob", Password: "x", AvatarPath: "a.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/orion-tube/a.png", user.Avatar)

	e.uploader.err = errors.New("down")
	_, err = e.users.Register(context.Background(), RegisterInput{Username: "carol", FullName: "Carol", Password: "x", AvatarPath: "c.png"})
	assert.True(t, errors.Is(err, errno.UploadFailed))
}

func TestUserGetChannelProfile(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a := e.s.addUser("alice")
	b := e.s.addUser("bob")
	c := e.s.addUser("carol")

	_, err := e.relations.Toggle(ctx, a.ID, model.TargetChannel, c.ID)
	require.NoError(t, err)
	_, err = e.relations.Toggle(ctx, b.ID, model.TargetChannel, c.ID)
	require.NoError(t, err)
	_, err = e.relations.Toggle(ctx, c.ID, model.TargetChannel, a.ID)
	require.NoError(t, err)

	profile, err := e.users.GetChannelProfile(ctx, a.ID, "Carol")
	require.NoError(t, err)
	assert.Equal(t, c.ID, profile.User.ID)
	assert.Equal(t, int64(2), profile.SubscribersCount)
	assert.Equal(t, int64(1), profile.ChannelsSubscribedToCount)
	assert.True(t, profile.IsSubscribed)

	profile, err = e.users.GetChannelProfile(ctx, 0, "carol")
	require.NoError(t, err)
	assert.False(t, profile.IsSubscribed)

	_, err = e.users.GetChannelProfile(ctx, 0, "nobody")
	assert.Equal(t, errno.NotFound.Code, errno.ConvertErr(err).Code)
}

func TestUserGetProfile(t *testing.T) {
	e := newEnv()
	a := e.s.addUser("alice")

	_, err := e.users.GetProfile(context.Background(), 0)
	assert.True(t, errors.Is(err, errno.Unauthorized))

	user, err := e.users.GetProfile(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}
