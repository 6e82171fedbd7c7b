package types

import (
	"github.com/foodgram/backend/internal/model"
	"github.com/google/uuid"
)

type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the full read shape of a recipe as seen by a viewer
type RecipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Tags             []model.Tag                `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// ShortRecipe is the compact projection returned by favorite and cart toggles
// and embedded in subscriptions.
type ShortRecipe struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func NewShortRecipe(r *model.Recipe) ShortRecipe {
	return ShortRecipe{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// ShortLinkResponse is returned by GET /recipes/{id}/get-link
type ShortLinkResponse struct {
	ShortLink string `json:"short-link"`
}

// Page is the pagination envelope of every list endpoint
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
