package config

import (
	"os"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment
func GetEnvironment() Environment {
	// CI environment is automatically detected
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch env := Environment(os.Getenv("ENV")); env {
	case Production, Test, Development:
		return env
	default:
		return Development
	}
}

// IsProduction reports whether the configuration targets production
func (c *Config) IsProduction() bool {
	return c.Env == Production
}
