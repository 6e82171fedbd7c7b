package service

import (
	"testing"

	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIngredientsPrefixSearch(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"Sugar", "salt", "sour cream", "mustard", "50%_cream"} {
		testhelpers.CreateIngredient(t, env.db, name, "g")
	}

	names := func(prefix string) []string {
		ingredients, err := env.catalog.ListIngredients(env.ctx, prefix)
		require.NoError(t, err)
		out := make([]string, len(ingredients))
		for i, in := range ingredients {
			out[i] = in.Name
		}
		return out
	}

	assert.Equal(t, []string{"salt", "sour cream", "Sugar"}, names("s"))
	assert.Equal(t, []string{"Sugar"}, names("SU"))
	assert.Empty(t, names("cream"), "matches only at the start")
	assert.Equal(t, []string{"50%_cream"}, names("50%_"))
	assert.Empty(t, names("5_%"), "wildcards are literal")
	assert.Len(t, names(""), 5)
}

func TestCatalogLookups(t *testing.T) {
	env := newTestEnv(t)
	tag := testhelpers.CreateTag(t, env.db, "Lunch")
	ingredient := testhelpers.CreateIngredient(t, env.db, "rice", "g")

	got, err := env.catalog.GetTag(env.ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", got.Slug)
	_, err = env.catalog.GetTag(env.ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	gotIngredient, err := env.catalog.GetIngredient(env.ctx, ingredient.ID)
	require.NoError(t, err)
	assert.Equal(t, "rice", gotIngredient.Name)
	_, err = env.catalog.GetIngredient(env.ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	unknown := uuid.New()
	missing, err := env.catalog.MissingIngredients(env.ctx, []uuid.UUID{ingredient.ID, unknown})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{unknown}, missing)

	missing, err = env.catalog.MissingTags(env.ctx, []uuid.UUID{tag.ID})
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestImportIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	batch := func() []model.Ingredient {
		return []model.Ingredient{
			{Name: "flour", MeasurementUnit: "g"},
			{Name: "milk", MeasurementUnit: "ml"},
		}
	}

	created, err := env.catalog.ImportIngredients(env.ctx, batch())
	require.NoError(t, err)
	assert.Equal(t, int64(2), created)

	more := append(batch(), model.Ingredient{Name: "flour", MeasurementUnit: "kg"})
	created, err = env.catalog.ImportIngredients(env.ctx, more)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)
	assert.Equal(t, int64(3), countRows(t, env, &model.Ingredient{}))

	tags := []model.Tag{{Name: "Breakfast", Slug: "breakfast"}, {Name: "Dinner", Slug: "dinner"}}
	created, err = env.catalog.ImportTags(env.ctx, tags)
	require.NoError(t, err)
	assert.Equal(t, int64(2), created)

	created, err = env.catalog.ImportTags(env.ctx, []model.Tag{{Name: "Breakfast", Slug: "breakfast"}})
	require.NoError(t, err)
	assert.Zero(t, created)
}
