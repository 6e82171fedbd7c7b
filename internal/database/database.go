package database

import (
	"context"
	"fmt"
	"time"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database. Unique-index violations surface as
// gorm.ErrDuplicatedKey.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg)),
	}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
		logger.Logger.Info().Str("path", cfg.SQLitePath).Msg("connecting to sqlite database")
	default:
		dialector = postgres.Open(cfg.PostgresDSN())
		logger.Logger.Info().
			Str("host", cfg.DBHost).
			Str("port", cfg.DBPort).
			Str("user", cfg.DBUser).
			Msg("connecting to database")
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	logger.Logger.Info().Str("driver", cfg.DBDriver).Msg("successfully connected to database")
	return db, nil
}

// SQLiteDSN enables foreign keys on a sqlite file or memory path
func SQLiteDSN(path string) string {
	return "file:" + path + "?_foreign_keys=on"
}

func gormLogLevel(cfg *config.Config) gormlogger.LogLevel {
	if cfg.LogLevel == "debug" {
		return gormlogger.Info
	}
	return gormlogger.Warn
}

// HealthCheck checks if the database is accessible
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
