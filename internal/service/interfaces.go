package service

import (
	"context"

	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
}

// IUserService defines the interface for user operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, page Pagination) ([]model.User, int64, error)
	DescribeUsers(ctx context.Context, viewer *uuid.UUID, users []model.User) ([]types.UserResponse, error)
	DescribeUser(ctx context.Context, viewer *uuid.UUID, user *model.User) (*types.UserResponse, error)
	SetAvatar(ctx context.Context, userID uuid.UUID, dataURI string) (string, error)
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error
	SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// IFollowService defines the interface for subscription operations
type IFollowService interface {
	Follow(ctx context.Context, userID, targetID uuid.UUID, recipesLimit int) (*types.SubscriptionResponse, error)
	Unfollow(ctx context.Context, userID, targetID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, page Pagination, recipesLimit int) ([]types.SubscriptionResponse, int64, error)
}

// ICatalogService defines the interface for tag and ingredient operations
type ICatalogService interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	ListIngredients(ctx context.Context, prefix string) ([]model.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*model.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	Authorize(ctx context.Context, userID, id uuid.UUID) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, id uuid.UUID, req *types.RecipeUpdateRequest) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error
	ListRecipes(ctx context.Context, filter RecipeFilter, page Pagination) ([]model.Recipe, int64, error)
	DescribeRecipes(ctx context.Context, viewer *uuid.UUID, recipes []model.Recipe) ([]types.RecipeResponse, error)
	DescribeRecipe(ctx context.Context, viewer *uuid.UUID, recipe *model.Recipe) (*types.RecipeResponse, error)
}

// IRelationService defines the interface for favorites, cart and shopping list
type IRelationService interface {
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipe, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipe, error)
	RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error
	ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingItem, error)
}
