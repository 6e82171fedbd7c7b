package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "foodgram_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "foodgram_test", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Contains(t, cfg.PostgresDSN(), "dbname=foodgram_test")
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"DB_HOST", "DB_PASSWORD", "JWT_SECRET", "PAGE_SIZE", "TOKEN_TTL", "DB_DRIVER"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfigReadsDockerSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("pg-secret"), 0o600))

	t.Setenv("ENV", "production")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", dir)
	for _, key := range []string{"JWT_SECRET", "DB_PASSWORD"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
	assert.Equal(t, "pg-secret", cfg.DBPassword)
}

func TestValidateConfigProductionRequiresSecrets(t *testing.T) {
	cfg := &Config{
		Env:        Production,
		ServerPort: "8000",
		DBDriver:   "postgres",
		PageSize:   6,
		TokenTTL:   time.Hour,
	}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET: is required")
	assert.Contains(t, err.Error(), "DB_PASSWORD: is required")
}

func TestValidateConfigRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{Env: Test, ServerPort: "8000", DBDriver: "mysql", PageSize: 6, TokenTTL: time.Hour}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestS3PublicURL(t *testing.T) {
	assert.Equal(t, "https://media.s3.amazonaws.com", S3PublicURL(&Config{S3Bucket: "media"}))
	assert.Equal(t, "http://minio:9000/media", S3PublicURL(&Config{S3Bucket: "media", S3Endpoint: "http://minio:9000/"}))
	assert.Equal(t, "https://cdn.example", S3PublicURL(&Config{S3Bucket: "media", S3Endpoint: "http://minio:9000", S3PublicURL: "https://cdn.example/"}))
}
