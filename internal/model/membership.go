package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Favorite struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_user_recipe;index" json:"recipe_id"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type ShoppingCartItem struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_recipe;index" json:"recipe_id"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ShoppingCartItem) TableName() string {
	return "shopping_cart_items"
}

func (s *ShoppingCartItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&ShoppingCartItem{},
		&Follow{},
	}
}

func (f *Favorite) Pair() (uuid.UUID, uuid.UUID) {
	return f.UserID, f.RecipeID
}

func (s *ShoppingCartItem) Pair() (uuid.UUID, uuid.UUID) {
	return s.UserID, s.RecipeID
}
