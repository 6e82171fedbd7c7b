package service

import (
	"context"
	"errors"
	"testing"

	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	ingredients map[uuid.UUID]bool
	tags        map[uuid.UUID]bool
	err         error
}

func (f *fakeCatalog) MissingIngredients(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return f.missing(f.ingredients, ids)
}

func (f *fakeCatalog) MissingTags(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return f.missing(f.tags, ids)
}

func (f *fakeCatalog) missing(known map[uuid.UUID]bool, ids []uuid.UUID) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []uuid.UUID
	for _, id := range ids {
		if !known[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func TestValidateComposition(t *testing.T) {
	flour, sugar, unknownIngredient := uuid.New(), uuid.New(), uuid.New()
	breakfast, dinner, unknownTag := uuid.New(), uuid.New(), uuid.New()
	catalog := &fakeCatalog{
		ingredients: map[uuid.UUID]bool{flour: true, sugar: true},
		tags:        map[uuid.UUID]bool{breakfast: true, dinner: true},
	}

	valid := func() Composition {
		return Composition{
			Ingredients: []types.IngredientAmount{{ID: flour, Amount: 200}, {ID: sugar, Amount: 1}},
			Tags:        []uuid.UUID{breakfast, dinner},
			CookingTime: 1,
			HasImage:    true,
		}
	}

	tests := []struct {
		name         string
		mutate       func(c *Composition)
		requireImage bool
		want         ValidationKind
	}{
		{name: "valid", mutate: func(c *Composition) {}, requireImage: true},
		{name: "no ingredients", mutate: func(c *Composition) { c.Ingredients = nil }, want: KindEmptyIngredients},
		{name: "zero amount", mutate: func(c *Composition) { c.Ingredients[1].Amount = 0 }, want: KindInvalidAmount},
		{name: "negative amount", mutate: func(c *Composition) { c.Ingredients[0].Amount = -3 }, want: KindInvalidAmount},
		{
			name: "amount checked before duplicates",
			mutate: func(c *Composition) {
				c.Ingredients = []types.IngredientAmount{{ID: flour, Amount: 1}, {ID: flour, Amount: 0}}
			},
			want: KindInvalidAmount,
		},
		{
			name:   "duplicate ingredient",
			mutate: func(c *Composition) { c.Ingredients = append(c.Ingredients, types.IngredientAmount{ID: flour, Amount: 5}) },
			want:   KindDuplicateIngredient,
		},
		{
			name:   "unknown ingredient",
			mutate: func(c *Composition) { c.Ingredients[0].ID = unknownIngredient },
			want:   KindUnknownIngredient,
		},
		{name: "no tags", mutate: func(c *Composition) { c.Tags = []uuid.UUID{} }, want: KindEmptyTags},
		{name: "duplicate tag", mutate: func(c *Composition) { c.Tags = append(c.Tags, breakfast) }, want: KindDuplicateTag},
		{name: "unknown tag", mutate: func(c *Composition) { c.Tags[1] = unknownTag }, want: KindUnknownTag},
		{name: "zero cooking time", mutate: func(c *Composition) { c.CookingTime = 0 }, want: KindInvalidCookingTime},
		{name: "max cooking time", mutate: func(c *Composition) { c.CookingTime = MaxCookingTime }},
		{name: "cooking time too long", mutate: func(c *Composition) { c.CookingTime = MaxCookingTime + 1 }, want: KindInvalidCookingTime},
		{name: "max amount", mutate: func(c *Composition) { c.Ingredients[0].Amount = MaxAmount }},
		{name: "amount too large", mutate: func(c *Composition) { c.Ingredients[0].Amount = MaxAmount + 1 }, want: KindInvalidAmount},
		{
			name:         "missing image on create",
			mutate:       func(c *Composition) { c.HasImage = false },
			requireImage: true,
			want:         KindMissingImage,
		},
		{name: "missing image on update", mutate: func(c *Composition) { c.HasImage = false }},
		{
			name: "first failure wins",
			mutate: func(c *Composition) {
				c.Tags = nil
				c.CookingTime = 0
				c.HasImage = false
			},
			requireImage: true,
			want:         KindEmptyTags,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			err := ValidateComposition(context.Background(), catalog, c, tt.requireImage)
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			verr, ok := AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Equal(t, tt.want, verr.Kind)
		})
	}
}

func TestValidateCompositionPropagatesCatalogErrors(t *testing.T) {
	boom := errors.New("db down")
	c := Composition{
		Ingredients: []types.IngredientAmount{{ID: uuid.New(), Amount: 1}},
		Tags:        []uuid.UUID{uuid.New()},
		CookingTime: 5,
	}

	err := ValidateComposition(context.Background(), &fakeCatalog{err: boom}, c, false)
	assert.ErrorIs(t, err, boom)
	_, ok := AsValidationError(err)
	assert.False(t, ok)
}
