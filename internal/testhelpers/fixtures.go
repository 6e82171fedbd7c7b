package testhelpers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/foodgram/backend/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain password of users created by CreateUser
const TestPassword = "s3cret-pass"

// PNGDataURI is a 1x1 PNG upload payload
const PNGDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

// CreateUser inserts a user named username with TestPassword
func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Email:        strings.ToLower(username) + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     username,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, name string) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: name, Slug: strings.ToLower(strings.ReplaceAll(name, " ", "-"))}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *model.Ingredient {
	t.Helper()
	ingredient := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// Line pairs an ingredient with an amount for CreateRecipe
type Line struct {
	Ingredient *model.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with its composition directly, bypassing validation
func CreateRecipe(t *testing.T, db *gorm.DB, author *model.User, name string, tags []*model.Tag, lines ...Line) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		Image:       "/media/recipes/" + uuid.NewString() + ".png",
		CookingTime: 10,
	}
	require.NoError(t, db.Omit("Author", "Ingredients", "Tags").Create(recipe).Error)

	for _, line := range lines {
		require.NoError(t, db.Create(&model.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: line.Ingredient.ID,
			Amount:       line.Amount,
		}).Error)
	}
	for _, tag := range tags {
		require.NoError(t, db.Create(&model.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error)
	}
	return recipe
}
