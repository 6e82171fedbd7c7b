package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*model.Recipe, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeService) Authorize(ctx context.Context, userID, id uuid.UUID) (*model.Recipe, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, userID, id uuid.UUID, req *types.RecipeUpdateRequest) (*model.Recipe, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, filter service.RecipeFilter, page service.Pagination) ([]model.Recipe, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) DescribeRecipes(ctx context.Context, viewer *uuid.UUID, recipes []model.Recipe) ([]types.RecipeResponse, error) {
	args := m.Called(ctx, viewer, recipes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeResponse), args.Error(1)
}

func (m *MockRecipeService) DescribeRecipe(ctx context.Context, viewer *uuid.UUID, recipe *model.Recipe) (*types.RecipeResponse, error) {
	args := m.Called(ctx, viewer, recipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}
