package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest(username string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     username + "@Example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "long-enough-password",
	}
}

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.users.Register(env.ctx, registerRequest("cook"))
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.Email)
	assert.NotEqual(t, "long-enough-password", user.PasswordHash)

	_, err = env.users.Register(env.ctx, registerRequest("cook"))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	sameEmail := registerRequest("other")
	sameEmail.Email = "COOK@example.com"
	_, err = env.users.Register(env.ctx, sameEmail)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestListAndDescribeUsers(t *testing.T) {
	env := newTestEnv(t)
	viewer := testhelpers.CreateUser(t, env.db, "viewer")
	zed := testhelpers.CreateUser(t, env.db, "zed")
	testhelpers.CreateUser(t, env.db, "amy")

	_, err := env.follows.Follow(env.ctx, viewer.ID, zed.ID, 0)
	require.NoError(t, err)

	users, total, err := env.users.ListUsers(env.ctx, Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "amy", users[0].Username)

	all, _, err := env.users.ListUsers(env.ctx, Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	views, err := env.users.DescribeUsers(env.ctx, &viewer.ID, all)
	require.NoError(t, err)
	for _, v := range views {
		assert.Equal(t, v.Username == "zed", v.IsSubscribed, v.Username)
		assert.Nil(t, v.Avatar)
	}
}

func TestAvatarLifecycle(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "cook")

	url, err := env.users.SetAvatar(env.ctx, user.ID, testhelpers.PNGDataURI)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/avatars/"))
	path := filepath.Join(env.mediaRoot, strings.TrimPrefix(url, "/media/"))
	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := env.users.GetUser(env.ctx, user.ID)
	require.NoError(t, err)
	view, err := env.users.DescribeUser(env.ctx, nil, reloaded)
	require.NoError(t, err)
	require.NotNil(t, view.Avatar)
	assert.Equal(t, url, *view.Avatar)

	_, err = env.users.SetAvatar(env.ctx, user.ID, "data:text/plain;base64,aGVsbG8=")
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidImage, verr.Kind)

	require.NoError(t, env.users.DeleteAvatar(env.ctx, user.ID))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	reloaded, err = env.users.GetUser(env.ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Avatar)
}

func TestSetPassword(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "cook")
	auth := NewAuthService(env.db, "secret", 0, nil)

	err := env.users.SetPassword(env.ctx, user.ID, "wrong", "new-password-123")
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, KindInvalidPassword, verr.Kind)

	require.NoError(t, env.users.SetPassword(env.ctx, user.ID, testhelpers.TestPassword, "new-password-123"))

	_, err = auth.Login(env.ctx, user.Email, testhelpers.TestPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
