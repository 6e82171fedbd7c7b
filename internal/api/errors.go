package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/service"
)

// respondError maps service errors onto HTTP responses. Unknown errors are
// logged and hidden behind a 500.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "code": string(verr.Kind), "field": verr.Field})
	case errors.Is(err, service.ErrRelationNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "already_exists"})
	case errors.Is(err, service.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "self_follow"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": "permission_denied"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_credentials"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "unauthorized"})
	default:
		logger.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
	}
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid_request"})
}

func respondNotFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + ": not found", "code": "not_found"})
}
