package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	AuthorID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Image       string    `gorm:"size:255;not null" json:"image"`
	CookingTime int       `gorm:"not null;check:chk_recipe_cooking_time,cooking_time BETWEEN 1 AND 32767" json:"cooking_time"`

	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Tags        []RecipeTag        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is one composition line of a recipe.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient;index" json:"ingredient_id"`
	Amount       int       `gorm:"not null;check:chk_recipe_ingredient_amount,amount >= 1" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

type RecipeTag struct {
	ID       uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_tag" json:"recipe_id"`
	TagID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_tag;index" json:"tag_id"`

	Tag Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
}

func (rt *RecipeTag) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	return nil
}
