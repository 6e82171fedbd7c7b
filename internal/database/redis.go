package database

import (
	"context"
	"fmt"
	"time"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a new Redis client. It returns nil without error when
// neither REDIS_URL nor REDIS_HOST is configured.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" && cfg.RedisHost == "" {
		return nil, nil
	}

	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	// REDIS_URL wins when set
	if cfg.RedisURL != "" {
		parsedOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsedOpts
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Logger.Info().Str("addr", opts.Addr).Msg("successfully connected to Redis")
	return client, nil
}
