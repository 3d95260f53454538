package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "matcher.db", cfg.DatabasePath)
	assert.True(t, cfg.IsDevelopment())
	assert.NotEmpty(t, cfg.SessionSecret())
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("ENABLE_METRICS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddress)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.False(t, cfg.EnableMetrics)
}

func TestLoadConfigYAMLFileUnderEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_address: \":4000\"\nlog_level: debug\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// File overrides defaults; environment overrides the file.
	assert.Equal(t, ":4000", cfg.ServerAddress)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "a-real-secret", cfg.SessionSecret())
}
