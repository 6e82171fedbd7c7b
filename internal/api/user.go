package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type UserHandler struct {
	userService   service.IUserService
	followService service.IFollowService
	authService   service.IAuthService
	pageSize      int
}

func NewUserHandler(userService service.IUserService, followService service.IFollowService, authService service.IAuthService, pageSize int) *UserHandler {
	return &UserHandler{
		userService:   userService,
		followService: followService,
		authService:   authService,
		pageSize:      pageSize,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.authService)
	optionalAuth := middleware.OptionalAuth(h.authService)

	users := router.Group("/users")
	{
		users.GET("", optionalAuth, h.ListUsers)
		users.POST("", h.Register)
		users.GET("/me", requireAuth, h.Me)
		users.PUT("/me/avatar", requireAuth, h.SetAvatar)
		users.DELETE("/me/avatar", requireAuth, h.DeleteAvatar)
		users.POST("/set_password", requireAuth, h.SetPassword)
		users.GET("/subscriptions", requireAuth, h.Subscriptions)
		users.GET("/:id", optionalAuth, h.GetUser)
		users.POST("/:id/subscribe", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	page := parsePagination(c, h.pageSize)

	users, total, err := h.userService.ListUsers(ctx, page)
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.userService.DescribeUsers(ctx, middleware.Viewer(c), users)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, results, total, page))
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.NewUserResponse(user, false))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "user")
		return
	}

	ctx := c.Request.Context()
	user, err := h.userService.GetUser(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.userService.DescribeUser(ctx, middleware.Viewer(c), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	ctx := c.Request.Context()

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.userService.DescribeUser(ctx, &userID, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req types.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	url, err := h.userService.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.AvatarResponse{Avatar: url})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	if err := h.userService.DeleteAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	userID, _ := middleware.UserID(c)
	if err := h.userService.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the caller follows, each with a sample of recipes
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	page := parsePagination(c, h.pageSize)

	results, total, err := h.followService.Subscriptions(c.Request.Context(), userID, page, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, results, total, page))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	targetID, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "user")
		return
	}

	userID, _ := middleware.UserID(c)
	resp, err := h.followService.Follow(c.Request.Context(), userID, targetID, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	targetID, ok := parseID(c, "id")
	if !ok {
		respondNotFound(c, "user")
		return
	}

	userID, _ := middleware.UserID(c)
	if err := h.followService.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
