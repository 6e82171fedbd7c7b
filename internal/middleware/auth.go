package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/types"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextClaims   = "claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that requires a valid token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}
		if !authenticate(c, validator, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is sent and lets anonymous
// requests through. A token that is sent but invalid is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && !authenticate(c, validator, authHeader) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, validator TokenValidator, authHeader string) bool {
	token, ok := extractToken(authHeader)
	if !ok {
		abortUnauthorized(c, "invalid authorization header format")
		return false
	}

	claims, err := validator.ValidateToken(c.Request.Context(), token)
	if err != nil {
		abortUnauthorized(c, "invalid or expired token")
		return false
	}

	// Store user info in context
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextClaims, claims)
	return true
}

// extractToken accepts "Bearer <token>" and the legacy "Token <token>"
func extractToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	switch strings.ToLower(parts[0]) {
	case "bearer", "token":
		return parts[1], true
	}
	return "", false
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "code": "unauthorized"})
}

// UserID returns the authenticated caller, if any
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Viewer returns the authenticated caller as a pointer, nil when anonymous
func Viewer(c *gin.Context) *uuid.UUID {
	if id, ok := UserID(c); ok {
		return &id
	}
	return nil
}

// Claims returns the validated token claims, if any
func Claims(c *gin.Context) (*types.TokenClaims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*types.TokenClaims)
	return claims, ok
}
