package service

import (
	"context"
	"testing"

	"github.com/foodgram/backend/internal/storage"
	"github.com/foodgram/backend/internal/testhelpers"
	"gorm.io/gorm"
)

type testEnv struct {
	ctx       context.Context
	db        *gorm.DB
	catalog   *CatalogService
	recipes   *RecipeService
	relations *RelationService
	follows   *FollowService
	users     *UserService
	mediaRoot string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	root := t.TempDir()
	images := storage.NewLocalStore(root, "/media")
	catalog := NewCatalogService(db)

	return &testEnv{
		ctx:       context.Background(),
		db:        db,
		catalog:   catalog,
		recipes:   NewRecipeService(db, catalog, images),
		relations: NewRelationService(db),
		follows:   NewFollowService(db),
		users:     NewUserService(db, images),
		mediaRoot: root,
	}
}
