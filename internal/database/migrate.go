package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/model"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsTable = "schema_migrations"

// Migration is one versioned schema step
type Migration struct {
	Name string
	Up   string
	Down string
}

// Migrations returns the embedded migrations ordered by name
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byName := make(map[string]*Migration)
	for _, entry := range entries {
		file := entry.Name()
		var name, direction string
		switch {
		case strings.HasSuffix(file, ".up.sql"):
			name, direction = strings.TrimSuffix(file, ".up.sql"), "up"
		case strings.HasSuffix(file, ".down.sql"):
			name, direction = strings.TrimSuffix(file, ".down.sql"), "down"
		default:
			continue
		}

		content, err := fs.ReadFile(migrationFiles, "migrations/"+file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		m, ok := byName[name]
		if !ok {
			m = &Migration{Name: name}
			byName[name] = m
		}
		if direction == "up" {
			m.Up = string(content)
		} else {
			m.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byName))
	for _, m := range byName {
		if m.Up == "" {
			return nil, fmt.Errorf("migration %s has no up script", m.Name)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Name < migrations[j].Name })
	return migrations, nil
}

// Migrate brings the schema up to date. SQLite databases use gorm auto-migration,
// PostgreSQL runs the embedded SQL migrations.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		logger.Ctx(ctx).Debug().Msg("using gorm auto-migration for sqlite")
		return db.WithContext(ctx).AutoMigrate(model.All()...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	_, err = MigrateUp(ctx, sqlDB)
	return err
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+migrationsTable+` (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// Applied lists the names of applied migrations in order
func Applied(ctx context.Context, db *sql.DB) ([]string, error) {
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT name FROM `+migrationsTable+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// MigrateUp applies every pending migration, each in its own transaction, and
// returns the names it applied.
func MigrateUp(ctx context.Context, db *sql.DB) ([]string, error) {
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}
	done, err := Applied(ctx, db)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(done))
	for _, name := range done {
		applied[name] = true
	}

	var ran []string
	for _, m := range migrations {
		if applied[m.Name] {
			continue
		}
		err := inTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.Up); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO `+migrationsTable+` (name) VALUES ($1)`, m.Name); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return ran, err
		}
		logger.Ctx(ctx).Info().Str("migration", m.Name).Msg("applied migration")
		ran = append(ran, m.Name)
	}
	return ran, nil
}

// Rollback reverts the most recently applied migration and returns its name,
// or "" when nothing is applied.
func Rollback(ctx context.Context, db *sql.DB) (string, error) {
	done, err := Applied(ctx, db)
	if err != nil {
		return "", err
	}
	if len(done) == 0 {
		return "", nil
	}
	last := done[len(done)-1]

	migrations, err := Migrations()
	if err != nil {
		return "", err
	}
	var target *Migration
	for i := range migrations {
		if migrations[i].Name == last {
			target = &migrations[i]
		}
	}
	if target == nil || target.Down == "" {
		return "", fmt.Errorf("migration %s cannot be rolled back", last)
	}

	err = inTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, target.Down); err != nil {
			return fmt.Errorf("failed to roll back migration %s: %w", last, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+migrationsTable+` WHERE name = $1`, last); err != nil {
			return fmt.Errorf("failed to unrecord migration %s: %w", last, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	logger.Ctx(ctx).Info().Str("migration", last).Msg("rolled back migration")
	return last, nil
}

func inTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
