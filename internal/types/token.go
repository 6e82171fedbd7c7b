package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a JWT token. RegisteredClaims.ID carries
// the token id used for revocation on logout.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// LoginRequest is the body of POST /auth/token/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned on successful login
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}
