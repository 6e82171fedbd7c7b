package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// MockRelationService is a mock implementation of the favorites and cart service
type MockRelationService struct {
	mock.Mock
}

func (m *MockRelationService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipe, error) {
	return m.add(m.Called(ctx, userID, recipeID))
}

func (m *MockRelationService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockRelationService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipe, error) {
	return m.add(m.Called(ctx, userID, recipeID))
}

func (m *MockRelationService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockRelationService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]service.ShoppingItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ShoppingItem), args.Error(1)
}

func (m *MockRelationService) add(args mock.Arguments) (*types.ShortRecipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ShortRecipe), args.Error(1)
}
