package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "breeze", cfg.DeepLink.Scheme)
	assert.Equal(t, 500*time.Millisecond, cfg.DeepLink.RetryShort)
	assert.Equal(t, 1500*time.Millisecond, cfg.DeepLink.RetryLong)

	assert.Equal(t, "127.0.0.1", cfg.API.Host)
	assert.Equal(t, "17870", cfg.API.Port)

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "breeze", cfg.DeepLink.Scheme)
	assert.Equal(t, "17870", cfg.API.Port)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"BREEZE_SCHEME":      "breeze-dev",
		"BREEZE_API_PORT":    "18000",
		"BREEZE_RETRY_SHORT": "5ms",
		"BREEZE_LOG_LEVEL":   "debug",
		"BREEZE_LOG_DEV":     "true",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "breeze-dev", cfg.DeepLink.Scheme)
	assert.Equal(t, "18000", cfg.API.Port)
	assert.Equal(t, 5*time.Millisecond, cfg.DeepLink.RetryShort)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	content := `
[deep_link]
scheme = "breeze-staging"

[window]
title = "Staging Viewer"
width = 1024
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	require.NoError(t, ApplyFile(path, cfg))

	assert.Equal(t, "breeze-staging", cfg.DeepLink.Scheme)
	assert.Equal(t, "Staging Viewer", cfg.Window.Title)
	assert.Equal(t, 1024, cfg.Window.Width)
	// Untouched values keep their defaults.
	assert.Equal(t, 800, cfg.Window.Height)
	assert.Equal(t, "17870", cfg.API.Port)
}

func TestApplyFileMissing(t *testing.T) {
	cfg := Default()
	err := ApplyFile(filepath.Join(t.TempDir(), "absent.toml"), cfg)
	assert.Error(t, err)
}
