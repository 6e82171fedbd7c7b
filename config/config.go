package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort    string
	ServerHost    string
	PublicBaseURL string
	CORSOrigins   []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Auth configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Media storage. When S3Bucket is empty images are written under MediaRoot.
	MediaRoot   string
	MediaURL    string
	S3Bucket    string
	S3Endpoint  string
	S3PublicURL string
	AWSRegion   string

	PageSize                 int
	RecipeCreateLimitPerHour int

	LogLevel  string
	LogFormat string
}

// secretKeys are values that may be provided as Docker secrets instead of env vars
var secretKeys = map[string]string{
	"DB_USER":        "db_user",
	"DB_PASSWORD":    "db_password",
	"JWT_SECRET":     "jwt_secret",
	"REDIS_PASSWORD": "redis_password",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8000")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "foodgram")
	v.SetDefault("DB_NAME", "foodgram")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "foodgram.db")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("MEDIA_ROOT", "media")
	v.SetDefault("MEDIA_URL", "/media")
	v.SetDefault("PAGE_SIZE", 6)
	v.SetDefault("RECIPE_CREATE_LIMIT_PER_HOUR", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	for key, secret := range secretKeys {
		if os.Getenv(key) != "" {
			continue
		}
		if value := readSecret(secret); value != "" {
			v.Set(key, value)
		}
	}

	ttl, err := time.ParseDuration(v.GetString("TOKEN_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		Env:                      GetEnvironment(),
		ServerPort:               v.GetString("SERVER_PORT"),
		ServerHost:               v.GetString("SERVER_HOST"),
		PublicBaseURL:            strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		CORSOrigins:              splitList(v.GetString("CORS_ORIGINS")),
		DBDriver:                 v.GetString("DB_DRIVER"),
		DBHost:                   v.GetString("DB_HOST"),
		DBPort:                   v.GetString("DB_PORT"),
		DBUser:                   v.GetString("DB_USER"),
		DBPassword:               v.GetString("DB_PASSWORD"),
		DBName:                   v.GetString("DB_NAME"),
		DBSSLMode:                v.GetString("DB_SSL_MODE"),
		SQLitePath:               v.GetString("SQLITE_PATH"),
		RedisHost:                v.GetString("REDIS_HOST"),
		RedisPort:                v.GetString("REDIS_PORT"),
		RedisPassword:            v.GetString("REDIS_PASSWORD"),
		RedisDB:                  v.GetInt("REDIS_DB"),
		RedisURL:                 v.GetString("REDIS_URL"),
		JWTSecret:                v.GetString("JWT_SECRET"),
		TokenTTL:                 ttl,
		MediaRoot:                v.GetString("MEDIA_ROOT"),
		MediaURL:                 strings.TrimRight(v.GetString("MEDIA_URL"), "/"),
		S3Bucket:                 v.GetString("S3_BUCKET_NAME"),
		S3Endpoint:               v.GetString("S3_ENDPOINT"),
		S3PublicURL:              v.GetString("S3_PUBLIC_URL"),
		AWSRegion:                v.GetString("AWS_REGION"),
		PageSize:                 v.GetInt("PAGE_SIZE"),
		RecipeCreateLimitPerHour: v.GetInt("RECIPE_CREATE_LIMIT_PER_HOUR"),
		LogLevel:                 v.GetString("LOG_LEVEL"),
		LogFormat:                v.GetString("LOG_FORMAT"),
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// PostgresDSN builds the connection string for the configured PostgreSQL database
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
