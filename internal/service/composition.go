package service

import (
	"context"
	"fmt"
	"math"

	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// MaxAmount fits the INTEGER amount column
	MaxAmount = math.MaxInt32
	// MaxCookingTime is the largest cooking time in minutes
	MaxCookingTime = 32767
)

// Composition is a full replacement set of ingredient lines and tags for a recipe
type Composition struct {
	Ingredients []types.IngredientAmount
	Tags        []uuid.UUID
	CookingTime int
	// HasImage reports whether an image is submitted or already stored
	HasImage bool
}

// Catalog answers which ids exist in the reference data
type Catalog interface {
	MissingIngredients(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	MissingTags(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// ValidateComposition checks c against the recipe composition rules in order and
// returns the first violation. requireImage is set on creation.
func ValidateComposition(ctx context.Context, catalog Catalog, c Composition, requireImage bool) error {
	if len(c.Ingredients) == 0 {
		return newValidationError(KindEmptyIngredients, "ingredients", "at least one ingredient is required")
	}

	ingredientIDs := make([]uuid.UUID, 0, len(c.Ingredients))
	for _, line := range c.Ingredients {
		if line.Amount < 1 || line.Amount > MaxAmount {
			return newValidationError(KindInvalidAmount, "ingredients", "amount of %s must be between 1 and %d", line.ID, MaxAmount)
		}
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(c.Ingredients))
	for _, line := range c.Ingredients {
		if _, ok := seenIngredients[line.ID]; ok {
			return newValidationError(KindDuplicateIngredient, "ingredients", "ingredient %s is listed more than once", line.ID)
		}
		seenIngredients[line.ID] = struct{}{}
		ingredientIDs = append(ingredientIDs, line.ID)
	}
	missing, err := catalog.MissingIngredients(ctx, ingredientIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return newValidationError(KindUnknownIngredient, "ingredients", "ingredient %s does not exist", missing[0])
	}

	if len(c.Tags) == 0 {
		return newValidationError(KindEmptyTags, "tags", "at least one tag is required")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(c.Tags))
	for _, id := range c.Tags {
		if _, ok := seenTags[id]; ok {
			return newValidationError(KindDuplicateTag, "tags", "tag %s is listed more than once", id)
		}
		seenTags[id] = struct{}{}
	}
	missing, err = catalog.MissingTags(ctx, c.Tags)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return newValidationError(KindUnknownTag, "tags", "tag %s does not exist", missing[0])
	}

	if c.CookingTime < 1 || c.CookingTime > MaxCookingTime {
		return newValidationError(KindInvalidCookingTime, "cooking_time", "cooking time must be between 1 and %d minutes", MaxCookingTime)
	}

	if requireImage && !c.HasImage {
		return newValidationError(KindMissingImage, "image", "an image is required")
	}
	return nil
}

// replaceComposition swaps the recipe's lines and tags for the submitted sets.
// It must run inside the caller's transaction.
func replaceComposition(tx *gorm.DB, recipeID uuid.UUID, c Composition) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to clear ingredients: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}

	lines := make([]model.RecipeIngredient, 0, len(c.Ingredients))
	for _, in := range c.Ingredients {
		lines = append(lines, model.RecipeIngredient{RecipeID: recipeID, IngredientID: in.ID, Amount: in.Amount})
	}
	if err := tx.Create(&lines).Error; err != nil {
		return fmt.Errorf("failed to insert ingredients: %w", err)
	}

	tags := make([]model.RecipeTag, 0, len(c.Tags))
	for _, id := range c.Tags {
		tags = append(tags, model.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := tx.Create(&tags).Error; err != nil {
		return fmt.Errorf("failed to insert tags: %w", err)
	}
	return nil
}
