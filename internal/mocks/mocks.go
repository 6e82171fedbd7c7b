// Package mocks provides testify mocks of the service interfaces for handler tests.
package mocks

import "github.com/foodgram/backend/internal/service"

var (
	_ service.IAuthService     = (*MockAuthService)(nil)
	_ service.IRecipeService   = (*MockRecipeService)(nil)
	_ service.IRelationService = (*MockRelationService)(nil)
)
