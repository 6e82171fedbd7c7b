package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ShoppingListHeader is the first line of a rendered shopping list
const ShoppingListHeader = "Shopping list"

// ShoppingItem is one consolidated ingredient across every recipe in a cart
type ShoppingItem struct {
	Name  string
	Unit  string
	Total int64
}

// ShoppingList sums ingredient amounts over all recipes in the user's cart,
// one item per ingredient, ordered by name then unit.
func (s *RelationService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingItem, error) {
	var items []ShoppingItem
	err := s.db.WithContext(ctx).
		Table("shopping_cart_items AS c").
		Select("i.name AS name, i.measurement_unit AS unit, SUM(ri.amount) AS total").
		Joins("JOIN recipe_ingredients AS ri ON ri.recipe_id = c.recipe_id").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("c.user_id = ?", userID).
		Group("i.id, i.name, i.measurement_unit").
		Order("i.name, i.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping list: %w", err)
	}
	return items, nil
}

// RenderShoppingList formats items as plain text: the header, then one
// "{name}: {total},{unit}" line per item.
func RenderShoppingList(items []ShoppingItem) string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteByte('\n')
	for _, item := range items {
		b.WriteString(item.Name)
		b.WriteString(": ")
		b.WriteString(strconv.FormatInt(item.Total, 10))
		b.WriteByte(',')
		b.WriteString(item.Unit)
		b.WriteByte('\n')
	}
	return b.String()
}
