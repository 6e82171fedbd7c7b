package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/service"
)

// CatalogHandler serves the read-only tag and ingredient lists
type CatalogHandler struct {
	catalogService service.ICatalogService
}

func NewCatalogHandler(catalogService service.ICatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags", h.ListTags)
	router.GET("/tags/:id", h.GetTag)
	router.GET("/ingredients", h.ListIngredients)
	router.GET("/ingredients/:id", h.GetIngredient)
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalogService.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "tag")
		return
	}

	tag, err := h.catalogService.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// ListIngredients filters by case-insensitive name prefix when ?name= is given
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalogService.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "ingredient")
		return
	}

	ingredient, err := h.catalogService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
