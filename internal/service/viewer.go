package service

import (
	"context"
	"fmt"

	"github.com/foodgram/backend/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// followedBy returns which of ids the viewer follows. A nil viewer follows nobody.
func followedBy(ctx context.Context, db *gorm.DB, viewer *uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	if viewer == nil || len(ids) == 0 {
		return set, nil
	}
	var found []uuid.UUID
	err := db.WithContext(ctx).Model(&model.Follow{}).
		Where("user_id = ? AND following_id IN ?", *viewer, ids).
		Pluck("following_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

// memberOf returns which of recipeIDs the viewer holds in the membership table
func memberOf(ctx context.Context, db *gorm.DB, table interface{}, viewer *uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	if viewer == nil || len(recipeIDs) == 0 {
		return set, nil
	}
	var found []uuid.UUID
	err := db.WithContext(ctx).Model(table).
		Where("user_id = ? AND recipe_id IN ?", *viewer, recipeIDs).
		Pluck("recipe_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}
