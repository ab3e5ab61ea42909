package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFallbacks(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BUCKET", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.NotEmpty(t, cfg.DatabaseURL)
	// no fallback: the storage adapter must see the missing bucket on first use
	assert.Empty(t, cfg.StorageBucket)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORAGE_BUCKET", "uploads")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "uploads", cfg.StorageBucket)
	assert.True(t, cfg.IsProduction())
}
