package service

import (
	"testing"
	"time"

	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndValidateToken(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "Cook")
	auth := NewAuthService(env.db, "test-secret", time.Hour, NewMemoryRevocationStore())

	_, err := auth.Login(env.ctx, user.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(env.ctx, "nobody@example.com", testhelpers.TestPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := auth.Login(env.ctx, "  COOK@example.com ", testhelpers.TestPassword)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(env.ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "Cook", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "cook")
	auth := NewAuthService(env.db, "test-secret", time.Hour, nil)

	_, err := auth.ValidateToken(env.ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	other := NewAuthService(env.db, "another-secret", time.Hour, nil)
	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.ValidateToken(env.ctx, foreign)
	assert.ErrorIs(t, err, ErrUnauthorized)

	expired := NewAuthService(env.db, "test-secret", -time.Minute, nil)
	stale, err := expired.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.ValidateToken(env.ctx, stale)
	assert.ErrorIs(t, err, ErrUnauthorized)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           uuid.Nil,
	})
	signed, err := noUser.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(env.ctx, signed)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "cook")
	auth := NewAuthService(env.db, "test-secret", time.Hour, NewMemoryRevocationStore())

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(env.ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(env.ctx, claims))
	_, err = auth.ValidateToken(env.ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	fresh, err := auth.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.ValidateToken(env.ctx, fresh)
	assert.NoError(t, err, "other tokens of the user stay valid")
}
