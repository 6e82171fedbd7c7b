package api

import (
	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// Services bundles the domain services the handlers depend on
type Services struct {
	Auth      service.IAuthService
	Users     service.IUserService
	Follows   service.IFollowService
	Catalog   service.ICatalogService
	Recipes   service.IRecipeService
	Relations service.IRelationService
}

// Options carries the request-independent knobs of the API
type Options struct {
	PublicBaseURL string
	PageSize      int
	// CreateLimiter throttles recipe creation per user; nil disables it
	CreateLimiter *middleware.RateLimiter
}

// SetupAPI mounts every /api route on router
func SetupAPI(router *gin.Engine, svc Services, opts Options) {
	apiGroup := router.Group("/api")
	{
		NewAuthHandler(svc.Auth).RegisterRoutes(apiGroup)
		NewUserHandler(svc.Users, svc.Follows, svc.Auth, opts.PageSize).RegisterRoutes(apiGroup)
		NewCatalogHandler(svc.Catalog).RegisterRoutes(apiGroup)
		NewRecipeHandler(svc.Recipes, svc.Relations, svc.Auth, opts.CreateLimiter, opts.PublicBaseURL, opts.PageSize).RegisterRoutes(apiGroup)

		if opts.CreateLimiter != nil {
			RegisterRateLimitRoutes(apiGroup, svc.Auth, opts.CreateLimiter)
		}
	}
}
