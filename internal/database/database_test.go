package database_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestMigrationsAreEmbeddedInOrder(t *testing.T) {
	migrations, err := database.Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 4)

	for i, m := range migrations {
		assert.NotEmpty(t, m.Up, m.Name)
		assert.NotEmpty(t, m.Down, m.Name)
		if i > 0 {
			assert.Less(t, migrations[i-1].Name, m.Name)
		}
	}
	assert.Equal(t, "0001_create_users", migrations[0].Name)
	assert.True(t, strings.Contains(migrations[3].Up, "shopping_cart_items"))
}

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "foodgram.db"),
		LogLevel:   "error",
	}

	db, err := database.Open(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db))
	require.NoError(t, database.HealthCheck(ctx, db))

	for _, table := range []string{"users", "follows", "tags", "ingredients", "recipes", "recipe_ingredients", "recipe_tags", "favorites", "shopping_cart_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestSQLiteEnforcesForeignKeys(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db, "alice")
	recipe := testhelpers.CreateRecipe(t, db, user, "Soup", nil)

	err := db.Omit("User", "Recipe").Create(&model.Favorite{UserID: user.ID, RecipeID: recipe.ID}).Error
	require.NoError(t, err)

	err = db.Omit("User", "Recipe").Create(&model.Favorite{UserID: user.ID, RecipeID: user.ID}).Error
	assert.Error(t, err)
}

func TestPostgresMigrateUpAndRollback(t *testing.T) {
	pg := testhelpers.StartPostgres(t)
	db, err := sql.Open("postgres", pg.URL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	ran, err := database.MigrateUp(ctx, db)
	require.NoError(t, err)
	assert.Len(t, ran, 4)

	ran, err = database.MigrateUp(ctx, db)
	require.NoError(t, err)
	assert.Empty(t, ran)

	name, err := database.Rollback(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "0004_create_memberships", name)

	applied, err := database.Applied(ctx, db)
	require.NoError(t, err)
	assert.Len(t, applied, 3)

	var exists bool
	require.NoError(t, db.QueryRowContext(ctx, `SELECT to_regclass('public.favorites') IS NOT NULL`).Scan(&exists))
	assert.False(t, exists)

	ran, err = database.MigrateUp(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"0004_create_memberships"}, ran)
}

func TestPostgresConstraints(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	recipe := testhelpers.CreateRecipe(t, db, alice, "Soup", nil)

	fav := &model.Favorite{UserID: alice.ID, RecipeID: recipe.ID}
	require.NoError(t, db.Omit("User", "Recipe").Create(fav).Error)

	err := db.Omit("User", "Recipe").Create(&model.Favorite{UserID: alice.ID, RecipeID: recipe.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = db.Omit("User", "Following").Create(&model.Follow{UserID: alice.ID, FollowingID: alice.ID}).Error
	assert.Error(t, err, "a user cannot follow themselves")

	err = db.Model(&model.Recipe{}).Where("id = ?", recipe.ID).Update("cooking_time", 0).Error
	assert.Error(t, err, "cooking time must be positive")
}
