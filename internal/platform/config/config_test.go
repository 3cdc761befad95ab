package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, "5000", cfg.APIPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 72*time.Hour, cfg.JWTExp)
	assert.Equal(t, StorageBackendPostgres, cfg.StorageBackend)
	assert.Equal(t, MediaBackendDisk, cfg.MediaBackend)
	assert.Equal(t, 30*time.Second, cfg.MediaUploadTimeout)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.TerminalStatuses)
	assert.Contains(t, cfg.DBConnStr, "dbname=bookswap")
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")
	t.Setenv("MEDIA_UPLOAD_TIMEOUT_SECONDS", "5")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("BOOK_TERMINAL_STATUSES", " exchanged, ,rented ")
	t.Setenv("DB_DSN", "postgres://u:p@db:5432/x")

	cfg := FromEnv()

	assert.Equal(t, "9090", cfg.APIPort)
	assert.Equal(t, 2*time.Hour, cfg.JWTExp)
	assert.Equal(t, 5*time.Second, cfg.MediaUploadTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, []string{"exchanged", "rented"}, cfg.TerminalStatuses)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DBConnStr)
}

func TestCoverBaseURL(t *testing.T) {
	cfg := &Config{APIPort: "8080", MediaBackend: MediaBackendDisk}
	assert.Equal(t, "http://localhost:8080/uploads", cfg.CoverBaseURL())

	cfg.MediaPublicBaseURL = "https://cdn.test/covers"
	assert.Equal(t, "https://cdn.test/covers", cfg.CoverBaseURL())

	s3 := &Config{APIPort: "8080", MediaBackend: MediaBackendS3}
	assert.Empty(t, s3.CoverBaseURL())
}
