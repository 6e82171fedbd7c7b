package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// HealthCheck reports whether the API and its database are reachable
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "ok",
		})
	}
}

// RegisterRateLimitRoutes exposes the caller's remaining recipe-creation budget
func RegisterRateLimitRoutes(router *gin.RouterGroup, authService service.IAuthService, creationLimiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.Use(middleware.AuthMiddleware(authService))
	{
		rateLimits.GET("/recipe-creation", func(c *gin.Context) {
			userID, _ := middleware.UserID(c)

			remaining, resetTime, err := creationLimiter.Remaining(c.Request.Context(), userID.String())
			if err != nil {
				respondError(c, err)
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"limit":      creationLimiter.Limit(),
				"remaining":  remaining,
				"reset_time": resetTime.Unix(),
				"window":     creationLimiter.Window().String(),
			})
		})
	}
}
