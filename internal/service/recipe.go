package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows a recipe listing. Zero values do not filter.
type RecipeFilter struct {
	AuthorID *uuid.UUID
	// TagSlugs matches recipes carrying any of the slugs
	TagSlugs []string
	// FavoritedBy and InCartOf restrict to one user's favorites or cart
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
}

// RecipeService handles recipe operations
type RecipeService struct {
	db      *gorm.DB
	catalog Catalog
	images  ImageStore
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, catalog Catalog, images ImageStore) *RecipeService {
	return &RecipeService{
		db:      db,
		catalog: catalog,
		images:  images,
	}
}

func compositionOf(req *types.RecipeRequest, hasImage bool) Composition {
	return Composition{
		Ingredients: req.Ingredients,
		Tags:        req.Tags,
		CookingTime: req.CookingTime,
		HasImage:    hasImage,
	}
}

// CreateRecipe validates and stores a new recipe authored by authorID
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*model.Recipe, error) {
	comp := compositionOf(req, req.Image != "")
	if err := ValidateComposition(ctx, s.catalog, comp, true); err != nil {
		return nil, err
	}
	img, err := DecodeImage("image", req.Image)
	if err != nil {
		return nil, err
	}

	imageURL, err := storeImage(ctx, s.images, "recipes", img)
	if err != nil {
		return nil, fmt.Errorf("failed to store recipe image: %w", err)
	}

	recipe := model.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       imageURL,
		CookingTime: req.CookingTime,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return replaceComposition(tx, recipe.ID, comp)
	})
	if err != nil {
		s.discardImage(ctx, imageURL)
		return nil, err
	}

	logger.Ctx(ctx).Info().Str("recipe_id", recipe.ID.String()).Str("author_id", authorID.String()).Msg("recipe created")
	return s.GetRecipe(ctx, recipe.ID)
}

// Authorize returns the recipe when userID is its author
func (s *RecipeService) Authorize(ctx context.Context, userID, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "recipe")
	}
	if recipe.AuthorID != userID {
		return nil, ErrPermissionDenied
	}
	return &recipe, nil
}

// UpdateRecipe replaces the recipe's composition and the scalar fields present in
// req. Only the author may update. An empty image keeps the stored one.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uuid.UUID, req *types.RecipeUpdateRequest) (*model.Recipe, error) {
	current, err := s.Authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name, text, cookingTime := current.Name, current.Text, current.CookingTime
	if req.Name != nil {
		name = *req.Name
	}
	if req.Text != nil {
		text = *req.Text
	}
	if req.CookingTime != nil {
		cookingTime = *req.CookingTime
	}
	var newImage string
	if req.Image != nil {
		newImage = *req.Image
	}

	comp := Composition{
		Ingredients: req.Ingredients,
		Tags:        req.Tags,
		CookingTime: cookingTime,
		HasImage:    newImage != "" || current.Image != "",
	}
	if err := ValidateComposition(ctx, s.catalog, comp, false); err != nil {
		return nil, err
	}

	imageURL := current.Image
	if newImage != "" {
		img, err := DecodeImage("image", newImage)
		if err != nil {
			return nil, err
		}
		if imageURL, err = storeImage(ctx, s.images, "recipes", img); err != nil {
			return nil, fmt.Errorf("failed to store recipe image: %w", err)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Recipe{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":         name,
			"text":         text,
			"cooking_time": cookingTime,
			"image":        imageURL,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		return replaceComposition(tx, id, comp)
	})
	if err != nil {
		if imageURL != current.Image {
			s.discardImage(ctx, imageURL)
		}
		return nil, err
	}
	if imageURL != current.Image {
		s.discardImage(ctx, current.Image)
	}

	logger.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe updated")
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes a recipe with its lines, tags, favorites and cart entries.
// Only the author may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error {
	recipe, err := s.Authorize(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&model.RecipeIngredient{},
			&model.RecipeTag{},
			&model.Favorite{},
			&model.ShoppingCartItem{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return fmt.Errorf("failed to delete recipe dependents: %w", err)
			}
		}
		return tx.Delete(&model.Recipe{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	s.discardImage(ctx, recipe.Image)
	logger.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe deleted")
	return nil
}

// GetRecipe retrieves a recipe by ID with its author and composition
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.withComposition(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		return nil, notFound(err, "recipe")
	}
	return &recipe, nil
}

// ListRecipes returns one page of recipes matching filter, newest first, and the
// total number of matches.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter, page Pagination) ([]model.Recipe, int64, error) {
	filtered := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&model.Recipe{}).Scopes(s.filterScope(filter))
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []model.Recipe
	err := s.withComposition(filtered()).
		Order("recipes.created_at DESC").Order("recipes.id").
		Limit(page.Limit).Offset(page.Offset()).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

func (s *RecipeService) filterScope(f RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.AuthorID != nil {
			q = q.Where("recipes.author_id = ?", *f.AuthorID)
		}
		if len(f.TagSlugs) > 0 {
			tagged := s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.TagSlugs)
			q = q.Where("recipes.id IN (?)", tagged)
		}
		if f.FavoritedBy != nil {
			q = q.Where("recipes.id IN (?)", s.db.Model(&model.Favorite{}).Select("recipe_id").Where("user_id = ?", *f.FavoritedBy))
		}
		if f.InCartOf != nil {
			q = q.Where("recipes.id IN (?)", s.db.Model(&model.ShoppingCartItem{}).Select("recipe_id").Where("user_id = ?", *f.InCartOf))
		}
		return q
	}
}

func (s *RecipeService) withComposition(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Ingredients.Ingredient").Preload("Tags.Tag")
}

// DescribeRecipes shapes recipes for a viewer, computing favorite, cart and
// subscription flags. viewer is nil for anonymous callers.
func (s *RecipeService) DescribeRecipes(ctx context.Context, viewer *uuid.UUID, recipes []model.Recipe) ([]types.RecipeResponse, error) {
	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		authorIDs[i] = recipes[i].AuthorID
	}

	favorited, err := memberOf(ctx, s.db, &model.Favorite{}, viewer, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := memberOf(ctx, s.db, &model.ShoppingCartItem{}, viewer, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := followedBy(ctx, s.db, viewer, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]

		tags := make([]model.Tag, 0, len(r.Tags))
		for _, rt := range r.Tags {
			tags = append(tags, rt.Tag)
		}
		sort.Slice(tags, func(a, b int) bool { return tags[a].Name < tags[b].Name })

		lines := make([]types.RecipeIngredientResponse, 0, len(r.Ingredients))
		for _, ri := range r.Ingredients {
			lines = append(lines, types.RecipeIngredientResponse{
				ID:              ri.IngredientID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}
		sort.Slice(lines, func(a, b int) bool { return lines[a].Name < lines[b].Name })

		out = append(out, types.RecipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           types.NewUserResponse(&r.Author, subscribed[r.AuthorID]),
			Ingredients:      lines,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return out, nil
}

// DescribeRecipe is DescribeRecipes for a single recipe
func (s *RecipeService) DescribeRecipe(ctx context.Context, viewer *uuid.UUID, recipe *model.Recipe) (*types.RecipeResponse, error) {
	views, err := s.DescribeRecipes(ctx, viewer, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RecipeService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("image", url).Msg("failed to delete image")
	}
}
