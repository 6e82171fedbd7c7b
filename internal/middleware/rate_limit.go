package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/foodgram/backend/internal/logger"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per user in fixed windows stored in Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

// NewRecipeCreationRateLimiter limits how many recipes a user may publish per hour
func NewRecipeCreationRateLimiter(redisClient *redis.Client, perHour int) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     perHour,
		KeyPrefix: "rate_limit:recipe_creation",
	})
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting.
// It must run after AuthMiddleware.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			abortUnauthorized(c, "user not authenticated")
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), userID.String())
		if err != nil {
			// Redis trouble must not block publishing
			logger.Ctx(c.Request.Context()).Warn().Err(err).Msg("rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(resetTime.Sub(rl.now()).Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("rate limit of %d requests per %v exceeded", rl.config.Limit, rl.config.Window),
				"code":  "rate_limited",
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) windowKey(userID string) (string, time.Time) {
	windowStart := rl.now().Truncate(rl.config.Window)
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, userID, windowStart.Unix()), windowStart.Add(rl.config.Window)
}

// IsAllowed counts a request from the given user and reports whether it fits the window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, userID string) (bool, int, time.Time, error) {
	key, resetTime := rl.windowKey(userID)

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.config.Limit, remaining, resetTime, nil
}

// Remaining reports how many requests the user has left without counting one
func (rl *RateLimiter) Remaining(ctx context.Context, userID string) (int, time.Time, error) {
	key, resetTime := rl.windowKey(userID)

	count, err := rl.redis.Get(ctx, key).Int()
	if err == redis.Nil {
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}

func (rl *RateLimiter) Limit() int { return rl.config.Limit }

func (rl *RateLimiter) Window() time.Duration { return rl.config.Window }
