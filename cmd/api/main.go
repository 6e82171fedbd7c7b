package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(logger.Config{
		Service: "foodgram-api",
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	log := logger.Logger

	ctx := context.Background()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		// Continue without rate limiting and with in-process token revocation
		log.Warn().Err(err).Msg("redis unavailable")
		redisClient = nil
	}

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure image storage")
	}

	var revoked service.RevocationStore = service.NewMemoryRevocationStore()
	var createLimiter *middleware.RateLimiter
	if redisClient != nil {
		revoked = service.NewRedisRevocationStore(redisClient)
		createLimiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreateLimitPerHour)
	}

	catalog := service.NewCatalogService(db)
	services := api.Services{
		Auth:      service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, revoked),
		Users:     service.NewUserService(db, images),
		Follows:   service.NewFollowService(db),
		Catalog:   catalog,
		Recipes:   service.NewRecipeService(db, catalog, images),
		Relations: service.NewRelationService(db),
	}

	srv := server.New(cfg, db, services, createLimiter)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	closeRedis(redisClient)
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}

func newImageStore(ctx context.Context, cfg *config.Config) (service.ImageStore, error) {
	if cfg.S3Bucket == "" {
		return storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL), nil
	}
	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return storage.NewS3Store(s3Cfg), nil
}

func closeRedis(client *redis.Client) {
	if client != nil {
		client.Close()
	}
}
