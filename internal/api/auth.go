package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth/token")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.AuthMiddleware(h.authService), h.Logout)
	}
}

// Login exchanges email and password for an auth token
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.TokenResponse{AuthToken: token})
}

// Logout revokes the token the request was made with
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		respondError(c, service.ErrUnauthorized)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
