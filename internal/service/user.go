package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/model"
	"github.com/foodgram/backend/internal/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration and profile operations
type UserService struct {
	db     *gorm.DB
	images ImageStore
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB, images ImageStore) *UserService {
	return &UserService{db: db, images: images}
}

// Register creates a user with a bcrypt-hashed password
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var taken int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR username = ?", email, req.Username).
		Count(&taken).Error; err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if taken > 0 {
		return nil, fmt.Errorf("user with this email or username: %w", ErrAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Email:        email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, duplicate(err, "user with this email or username")
	}

	logger.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("user registered")
	return &user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// ListUsers returns one page of users ordered by username
func (s *UserService) ListUsers(ctx context.Context, page Pagination) ([]model.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []model.User
	if err := s.db.WithContext(ctx).Order("username").Limit(page.Limit).Offset(page.Offset()).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// DescribeUsers shapes users for a viewer, who is nil when anonymous
func (s *UserService) DescribeUsers(ctx context.Context, viewer *uuid.UUID, users []model.User) ([]types.UserResponse, error) {
	ids := make([]uuid.UUID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	subscribed, err := followedBy(ctx, s.db, viewer, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, types.NewUserResponse(&users[i], subscribed[users[i].ID]))
	}
	return out, nil
}

// DescribeUser is DescribeUsers for a single user
func (s *UserService) DescribeUser(ctx context.Context, viewer *uuid.UUID, user *model.User) (*types.UserResponse, error) {
	views, err := s.DescribeUsers(ctx, viewer, []model.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// SetAvatar stores a new avatar from a data URI and returns its URL
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, dataURI string) (string, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	img, err := DecodeImage("avatar", dataURI)
	if err != nil {
		return "", err
	}

	url, err := storeImage(ctx, s.images, "avatars", img)
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("avatar", url).Error; err != nil {
		s.discard(ctx, url)
		return "", fmt.Errorf("failed to update avatar: %w", err)
	}
	s.discard(ctx, user.Avatar)
	return url, nil
}

// DeleteAvatar clears the user's avatar
func (s *UserService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("avatar", "").Error; err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	s.discard(ctx, user.Avatar)
	return nil
}

// SetPassword changes the password after checking the current one
func (s *UserService) SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return newValidationError(KindInvalidPassword, "current_password", "current password is incorrect")
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *UserService) discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("image", url).Msg("failed to delete image")
	}
}
