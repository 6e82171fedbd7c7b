package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// parsePagination reads ?page= and ?limit=; malformed values fall back to defaults
func parsePagination(c *gin.Context, defaultLimit int) service.Pagination {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return service.Pagination{Page: page, Limit: limit}.Normalize(defaultLimit)
}

func newPage[T any](c *gin.Context, results []T, total int64, p service.Pagination) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	page := types.Page[T]{Count: total, Results: results}
	if int64(p.Page*p.Limit) < total {
		next := pageURL(c, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		page.Previous = &prev
	}
	return page
}

func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	u.Scheme = "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	u.Host = c.Request.Host
	return u.String()
}

// parseID reads a UUID path parameter. Malformed ids cannot match any row.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

// recipesLimit reads ?recipes_limit=, 0 meaning no cap
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
