package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogService serves tags and ingredients
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListTags returns every tag ordered by name
func (s *CatalogService) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetTag retrieves a tag by ID
func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	var tag model.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "tag")
	}
	return &tag, nil
}

// ListIngredients returns ingredients ordered by name, optionally restricted to
// names starting with prefix (case-insensitive).
func (s *CatalogService) ListIngredients(ctx context.Context, prefix string) ([]model.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("LOWER(name)").Order("name").Order("measurement_unit")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []model.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// GetIngredient retrieves an ingredient by ID
func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "ingredient")
	}
	return &ingredient, nil
}

// MissingIngredients returns the ids in ids that have no ingredient row
func (s *CatalogService) MissingIngredients(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return s.missing(ctx, &model.Ingredient{}, ids)
}

// MissingTags returns the ids in ids that have no tag row
func (s *CatalogService) MissingTags(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return s.missing(ctx, &model.Tag{}, ids)
}

func (s *CatalogService) missing(ctx context.Context, table interface{}, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	if err := s.db.WithContext(ctx).Model(table).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("failed to look up catalog ids: %w", err)
	}

	present := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// ImportIngredients inserts ingredients, skipping ones whose (name, unit) already
// exists, and returns how many rows were added.
func (s *CatalogService) ImportIngredients(ctx context.Context, ingredients []model.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, 500)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to import ingredients: %w", result.Error)
	}
	logger.Ctx(ctx).Info().Int64("created", result.RowsAffected).Int("submitted", len(ingredients)).Msg("imported ingredients")
	return result.RowsAffected, nil
}

// ImportTags inserts tags, skipping ones whose name or slug already exists
func (s *CatalogService) ImportTags(ctx context.Context, tags []model.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tags)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to import tags: %w", result.Error)
	}
	logger.Ctx(ctx).Info().Int64("created", result.RowsAffected).Int("submitted", len(tags)).Msg("imported tags")
	return result.RowsAffected, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
