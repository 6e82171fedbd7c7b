package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// shoppingListFilename is the attachment name of the downloaded shopping list
const shoppingListFilename = "shopping_list.txt"

type RecipeHandler struct {
	recipeService   service.IRecipeService
	relationService service.IRelationService
	authService     service.IAuthService
	createLimiter   *middleware.RateLimiter
	publicBaseURL   string
	pageSize        int
}

// NewRecipeHandler creates the recipe handler. createLimiter may be nil, in
// which case recipe creation is not rate limited.
func NewRecipeHandler(
	recipeService service.IRecipeService,
	relationService service.IRelationService,
	authService service.IAuthService,
	createLimiter *middleware.RateLimiter,
	publicBaseURL string,
	pageSize int,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		relationService: relationService,
		authService:     authService,
		createLimiter:   createLimiter,
		publicBaseURL:   publicBaseURL,
		pageSize:        pageSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.authService)
	optionalAuth := middleware.OptionalAuth(h.authService)

	create := []gin.HandlerFunc{requireAuth}
	if h.createLimiter != nil {
		create = append(create, h.createLimiter.RateLimitMiddleware())
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.POST("", create...)
		recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.PATCH("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("/:id/favorite", requireAuth, h.AddFavorite)
		recipes.DELETE("/:id/favorite", requireAuth, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", requireAuth, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", requireAuth, h.RemoveFromCart)
	}
}

// parseRecipeFilter reads the listing query. The favorited and cart flags only
// apply to authenticated callers.
func parseRecipeFilter(c *gin.Context) (service.RecipeFilter, error) {
	var filter service.RecipeFilter

	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			return filter, err
		}
		filter.AuthorID = &id
	}

	for _, raw := range c.QueryArray("tags") {
		for _, slug := range strings.Split(raw, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				filter.TagSlugs = append(filter.TagSlugs, slug)
			}
		}
	}

	if viewer := middleware.Viewer(c); viewer != nil {
		if queryFlag(c, "is_favorited") {
			filter.FavoritedBy = viewer
		}
		if queryFlag(c, "is_in_shopping_cart") {
			filter.InCartOf = viewer
		}
	}
	return filter, nil
}

func queryFlag(c *gin.Context, name string) bool {
	on, err := strconv.ParseBool(c.Query(name))
	return err == nil && on
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, err := parseRecipeFilter(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	page := parsePagination(c, h.pageSize)
	recipes, total, err := h.recipeService.ListRecipes(ctx, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.recipeService.DescribeRecipes(ctx, middleware.Viewer(c), recipes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, results, total, page))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "recipe")
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.recipeService.GetRecipe(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.recipeService.DescribeRecipe(ctx, middleware.Viewer(c), recipe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	userID, _ := middleware.UserID(c)
	recipe, err := h.recipeService.CreateRecipe(ctx, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.recipeService.DescribeRecipe(ctx, &userID, recipe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UpdateRecipe replaces the recipe's composition and the fields present in the
// body. Existence and authorship are checked before the body is read.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "recipe")
		return
	}

	ctx := c.Request.Context()
	userID, _ := middleware.UserID(c)
	if _, err := h.recipeService.Authorize(ctx, userID, id); err != nil {
		respondError(c, err)
		return
	}

	var req types.RecipeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(ctx, userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.recipeService.DescribeRecipe(ctx, &userID, recipe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "recipe")
		return
	}

	userID, _ := middleware.UserID(c)
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetLink returns the short link of an existing recipe
func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "recipe")
		return
	}

	if _, err := h.recipeService.GetRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ShortLinkResponse{ShortLink: service.ShortLink(h.publicBaseURL, id)})
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMembership(c, h.relationService.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, h.relationService.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMembership(c, h.relationService.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, h.relationService.RemoveFromCart)
}

type addFunc func(ctx context.Context, userID, recipeID uuid.UUID) (*types.ShortRecipe, error)

type removeFunc func(ctx context.Context, userID, recipeID uuid.UUID) error

func (h *RecipeHandler) addMembership(c *gin.Context, add addFunc) {
	recipeID, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "recipe")
		return
	}

	userID, _ := middleware.UserID(c)
	short, err := add(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, short)
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove removeFunc) {
	recipeID, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "recipe")
		return
	}

	userID, _ := middleware.UserID(c)
	if err := remove(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart renders the caller's consolidated shopping list as a text attachment
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	items, err := h.relationService.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderShoppingList(items)))
}
