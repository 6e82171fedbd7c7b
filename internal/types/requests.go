package types

import "github.com/google/uuid"

// RegisterRequest is the body of POST /users
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
}

// AvatarRequest carries a base64 data URI
type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

// IngredientAmount is one submitted composition line
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeRequest is the body of POST /recipes. Image is a base64 data URI.
type RecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uuid.UUID        `json:"tags"`
	Image       string             `json:"image"`
	Name        string             `json:"name" binding:"required,max=200"`
	Text        string             `json:"text" binding:"required"`
	CookingTime int                `json:"cooking_time"`
}

// RecipeUpdateRequest is the body of PATCH /recipes/{id}. Ingredients and Tags
// always replace the stored sets; nil scalar fields keep their stored values,
// as does an empty image.
type RecipeUpdateRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []uuid.UUID        `json:"tags"`
	Image       *string            `json:"image"`
	Name        *string            `json:"name" binding:"omitempty,min=1,max=200"`
	Text        *string            `json:"text" binding:"omitempty,min=1"`
	CookingTime *int               `json:"cooking_time"`
}
