package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/foodgram/backend/internal/types"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if claims, ok := args.Get(0).(*types.TokenClaims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

func newAuthRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		if id, ok := UserID(c); ok {
			c.String(http.StatusOK, id.String())
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	validator := new(mockValidator)
	validator.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: userID, Username: "cook"}, nil)
	validator.On("ValidateToken", "bad").Return(nil, errors.New("expired"))

	router := newAuthRouter(AuthMiddleware(validator))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "bearer", header: "Bearer good", status: http.StatusOK, body: userID.String()},
		{name: "legacy token prefix", header: "Token good", status: http.StatusOK, body: userID.String()},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized},
		{name: "no token", header: "Bearer", status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer bad", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	validator := new(mockValidator)
	validator.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: userID}, nil)
	validator.On("ValidateToken", "bad").Return(nil, errors.New("expired"))

	router := newAuthRouter(OptionalAuth(validator))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, userID.String(), w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	validator.AssertNumberOfCalls(t, "ValidateToken", 2)
}
