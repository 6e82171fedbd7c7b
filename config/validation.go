package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredFields []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {
			RequiredFields: []string{"SERVER_PORT", "DB_DRIVER"},
		},
		Test: {
			RequiredFields: []string{"SERVER_PORT", "DB_DRIVER"},
		},
		CI: {
			RequiredFields: []string{"SERVER_PORT", "DB_DRIVER", "JWT_SECRET"},
		},
		Production: {
			RequiredFields: []string{"SERVER_PORT", "DB_DRIVER", "JWT_SECRET", "DB_PASSWORD", "PUBLIC_BASE_URL"},
		},
	}
)

func fieldValue(cfg *Config, name string) string {
	switch name {
	case "SERVER_PORT":
		return cfg.ServerPort
	case "DB_DRIVER":
		return cfg.DBDriver
	case "JWT_SECRET":
		return cfg.JWTSecret
	case "DB_PASSWORD":
		return cfg.DBPassword
	case "PUBLIC_BASE_URL":
		return cfg.PublicBaseURL
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []string

	for _, field := range requirements[cfg.Env].RequiredFields {
		if fieldValue(cfg, field) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"}.Error())
		}
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite", "":
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "must be postgres or sqlite"}.Error())
	}

	if cfg.PageSize < 1 {
		errs = append(errs, ValidationError{Field: "PAGE_SIZE", Message: "must be at least 1"}.Error())
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{Field: "TOKEN_TTL", Message: "must be positive"}.Error())
	}

	// Outside production an empty secret is tolerated and replaced
	if cfg.JWTSecret == "" && cfg.Env != Production {
		cfg.JWTSecret = "insecure-development-secret"
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
