package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/foodgram/backend/internal/service"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &service.ValidationError{Kind: service.KindDuplicateTag, Field: "tags", Message: "dup"}, http.StatusBadRequest, "duplicate_tag"},
		{"already exists", fmt.Errorf("favorite: %w", service.ErrAlreadyExists), http.StatusBadRequest, "already_exists"},
		{"missing relation", fmt.Errorf("favorite: %w", service.ErrRelationNotFound), http.StatusBadRequest, "not_found"},
		{"missing entity", fmt.Errorf("recipe: %w", service.ErrNotFound), http.StatusNotFound, "not_found"},
		{"self follow", service.ErrSelfFollow, http.StatusBadRequest, "self_follow"},
		{"forbidden", service.ErrPermissionDenied, http.StatusForbidden, "permission_denied"},
		{"credentials", service.ErrInvalidCredentials, http.StatusBadRequest, "invalid_credentials"},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/recipes", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/recipes", nil)

	respondError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password authentication")
}
