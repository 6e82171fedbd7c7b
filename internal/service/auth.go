package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RevocationStore remembers logged-out token ids until they expire
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
	revoked   RevocationStore
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, revoked RevocationStore) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		revoked:   revoked,
	}
}

// Login checks credentials and issues a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.GenerateToken(&user)
}

// GenerateToken signs a token for user valid for the configured TTL
func (s *AuthService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token and rejects revoked ones
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrUnauthorized
		}
	}
	return claims, nil
}

// Logout revokes the token described by claims for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if s.revoked == nil || claims.ID == "" {
		return nil
	}
	ttl := s.tokenTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, ttl)
}
