package service

import (
	"context"
	"fmt"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationService manages per-user favorite and shopping cart membership
type RelationService struct {
	db *gorm.DB
}

// NewRelationService creates a new RelationService instance
func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// AddFavorite marks a recipe as favorite. Adding twice is an error.
func (s *RelationService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipe, error) {
	return s.add(ctx, &model.Favorite{UserID: userID, RecipeID: recipeID}, "favorite")
}

// RemoveFavorite removes a recipe from favorites. Removing a missing one is an error.
func (s *RelationService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, &model.Favorite{}, userID, recipeID, "favorite")
}

// AddToCart queues a recipe in the shopping cart. Adding twice is an error.
func (s *RelationService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipe, error) {
	return s.add(ctx, &model.ShoppingCartItem{UserID: userID, RecipeID: recipeID}, "shopping cart entry")
}

// RemoveFromCart drops a recipe from the shopping cart. Removing a missing one is an error.
func (s *RelationService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.remove(ctx, &model.ShoppingCartItem{}, userID, recipeID, "shopping cart entry")
}

// membershipKey exposes the (user, recipe) pair of a membership row
type membershipKey interface {
	Pair() (uuid.UUID, uuid.UUID)
}

func (s *RelationService) add(ctx context.Context, row membershipKey, what string) (*types.ShortRecipe, error) {
	userID, recipeID := row.Pair()

	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, notFound(err, "recipe")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(row).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", what, err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%s: %w", what, ErrAlreadyExists)
	}

	// Two concurrent adds can both pass the check above; the unique index decides
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return nil, duplicate(err, what)
	}
	logger.Ctx(ctx).Debug().Str("user_id", userID.String()).Str("recipe_id", recipeID.String()).Msgf("added %s", what)

	short := types.NewShortRecipe(&recipe)
	return &short, nil
}

func (s *RelationService) remove(ctx context.Context, table interface{}, userID, recipeID uuid.UUID, what string) error {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).Select("id").First(&recipe, "id = ?", recipeID).Error; err != nil {
		return notFound(err, "recipe")
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(table)
	if result.Error != nil {
		return fmt.Errorf("failed to remove %s: %w", what, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, ErrRelationNotFound)
	}
	return nil
}
