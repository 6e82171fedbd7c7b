package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSelfFollow         = errors.New("cannot subscribe to yourself")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// ErrRelationNotFound is returned when removing a favorite, cart entry or
	// subscription that does not exist. It matches ErrNotFound.
	ErrRelationNotFound = fmt.Errorf("relation %w", ErrNotFound)
)

// ValidationKind identifies which input rule was violated
type ValidationKind string

const (
	KindEmptyIngredients    ValidationKind = "empty_ingredients"
	KindInvalidAmount       ValidationKind = "invalid_amount"
	KindDuplicateIngredient ValidationKind = "duplicate_ingredient"
	KindUnknownIngredient   ValidationKind = "unknown_ingredient"
	KindEmptyTags           ValidationKind = "empty_tags"
	KindDuplicateTag        ValidationKind = "duplicate_tag"
	KindUnknownTag          ValidationKind = "unknown_tag"
	KindInvalidCookingTime  ValidationKind = "invalid_cooking_time"
	KindMissingImage        ValidationKind = "missing_image"
	KindInvalidImage        ValidationKind = "invalid_image"
	KindInvalidPassword     ValidationKind = "invalid_password"
)

// ValidationError reports rule-violating input. Nothing is written when it is returned.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(kind ValidationKind, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsValidationError unwraps err into a *ValidationError if it is one
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// notFound maps gorm's missing-record error to ErrNotFound with context
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// duplicate maps a unique-index violation to ErrAlreadyExists with context
func duplicate(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, ErrAlreadyExists)
	}
	return err
}
