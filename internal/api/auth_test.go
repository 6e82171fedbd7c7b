package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	testhelpers.CreateUser(t, s.db, "alice")

	w := s.do(http.MethodPost, "/api/auth/token/login", map[string]string{
		"email":    "Alice@Example.com",
		"password": testhelpers.TestPassword,
	}, "")
	assertStatus(t, http.StatusOK, w)
	token := decode[types.TokenResponse](t, w).AuthToken
	assert.NotEmpty(t, token)

	w = s.do(http.MethodGet, "/api/users/me", nil, token)
	assertStatus(t, http.StatusOK, w)
	assert.Equal(t, "alice", decode[types.UserResponse](t, w).Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)
	testhelpers.CreateUser(t, s.db, "alice")

	w := s.do(http.MethodPost, "/api/auth/token/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	}, "")
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "invalid_credentials", errorCode(t, w))

	w = s.do(http.MethodPost, "/api/auth/token/login", map[string]string{"email": "not-an-email"}, "")
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "invalid_request", errorCode(t, w))
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	_, token := s.login("alice")

	w := s.do(http.MethodPost, "/api/auth/token/logout", nil, token)
	assertStatus(t, http.StatusNoContent, w)

	w = s.do(http.MethodGet, "/api/users/me", nil, token)
	assertStatus(t, http.StatusUnauthorized, w)
	assert.Equal(t, "unauthorized", errorCode(t, w))
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/users/me"},
		{http.MethodPost, "/api/auth/token/logout"},
		{http.MethodPost, "/api/recipes"},
		{http.MethodGet, "/api/recipes/download_shopping_cart"},
		{http.MethodGet, "/api/users/subscriptions"},
	} {
		w := s.do(tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}
}
