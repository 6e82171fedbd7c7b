package service

import (
	"context"
	"fmt"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FollowService manages subscriptions between users
type FollowService struct {
	db *gorm.DB
}

// NewFollowService creates a new FollowService instance
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow subscribes userID to targetID and returns the subscription view
func (s *FollowService) Follow(ctx context.Context, userID, targetID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error) {
	if userID == targetID {
		return nil, ErrSelfFollow
	}

	var target model.User
	if err := s.db.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		return nil, notFound(err, "user")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&model.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, targetID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("subscription: %w", ErrAlreadyExists)
	}

	// The unique index still guards against a concurrent identical request
	edge := model.Follow{UserID: userID, FollowingID: targetID}
	if err := s.db.WithContext(ctx).Omit("User", "Following").Create(&edge).Error; err != nil {
		return nil, duplicate(err, "subscription")
	}
	logger.Ctx(ctx).Debug().Str("user_id", userID.String()).Str("following_id", targetID.String()).Msg("subscribed")

	views, err := s.describe(ctx, userID, []model.User{target}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Unfollow removes the subscription of userID to targetID
func (s *FollowService) Unfollow(ctx context.Context, userID, targetID uuid.UUID) error {
	var target model.User
	if err := s.db.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		return notFound(err, "user")
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, targetID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return fmt.Errorf("failed to unsubscribe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("subscription: %w", ErrRelationNotFound)
	}
	return nil
}

// Subscriptions lists the users userID follows, each with up to recipesLimit of
// their newest recipes (all when recipesLimit <= 0) and their recipe count.
func (s *FollowService) Subscriptions(ctx context.Context, userID uuid.UUID, page Pagination, recipesLimit int) ([]types.SubscriptionResponse, int64, error) {
	followed := func() *gorm.DB {
		return s.db.Model(&model.Follow{}).Select("following_id").Where("user_id = ?", userID)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id IN (?)", followed()).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var users []model.User
	if err := s.db.WithContext(ctx).
		Where("id IN (?)", followed()).
		Order("username").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	views, err := s.describe(ctx, userID, users, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// IsFollowing reports whether userID follows targetID
func (s *FollowService) IsFollowing(ctx context.Context, userID, targetID uuid.UUID) (bool, error) {
	set, err := followedBy(ctx, s.db, &userID, []uuid.UUID{targetID})
	if err != nil {
		return false, err
	}
	return set[targetID], nil
}

func (s *FollowService) describe(ctx context.Context, viewer uuid.UUID, users []model.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	ids := make([]uuid.UUID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subscribed, err := followedBy(ctx, s.db, &viewer, ids)
	if err != nil {
		return nil, err
	}

	views := make([]types.SubscriptionResponse, 0, len(users))
	for i := range users {
		u := &users[i]

		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Where("author_id = ?", u.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count recipes: %w", err)
		}

		query := s.db.WithContext(ctx).Where("author_id = ?", u.ID).Order("created_at DESC").Order("id")
		if recipesLimit > 0 {
			query = query.Limit(recipesLimit)
		}
		var recipes []model.Recipe
		if err := query.Find(&recipes).Error; err != nil {
			return nil, fmt.Errorf("failed to list recipes: %w", err)
		}

		short := make([]types.ShortRecipe, 0, len(recipes))
		for j := range recipes {
			short = append(short, types.NewShortRecipe(&recipes[j]))
		}
		views = append(views, types.SubscriptionResponse{
			UserResponse: types.NewUserResponse(u, subscribed[u.ID]),
			Recipes:      short,
			RecipesCount: count,
		})
	}
	return views, nil
}
