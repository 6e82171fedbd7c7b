package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "List applied migrations")
	flag.Parse()

	logger.Init(logger.Config{Service: "foodgram-migrate", Level: "info", Format: "console", Output: os.Stderr})
	log := logger.Logger

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("DATABASE_URL is not set and configuration failed to load")
		}
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch {
	case *status:
		applied, err := database.Applied(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read applied migrations")
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("applied")
		}
	case *rollback:
		name, err := database.Rollback(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("rollback failed")
		}
		if name == "" {
			log.Info().Msg("no migrations to rollback")
			return
		}
		log.Info().Str("migration", name).Msg("rolled back")
	default:
		applied, err := database.MigrateUp(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		if len(applied) == 0 {
			log.Info().Msg("database is up to date")
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("applied")
		}
	}
}
