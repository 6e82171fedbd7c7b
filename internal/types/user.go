package types

import (
	"github.com/foodgram/backend/internal/model"
	"github.com/google/uuid"
)

// UserResponse is the public view of a user. IsSubscribed is relative to the viewer.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
	Avatar       *string   `json:"avatar"`
}

func NewUserResponse(u *model.User, subscribed bool) UserResponse {
	resp := UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
	if u.Avatar != "" {
		avatar := u.Avatar
		resp.Avatar = &avatar
	}
	return resp
}

// SubscriptionResponse describes a followed author together with a sample of
// their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []ShortRecipe `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}
