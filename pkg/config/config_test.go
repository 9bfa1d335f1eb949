package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.Server.Address = "" }},
		{"zero ping interval", func(c *Config) { c.Sync.PingInterval = 0 }},
		{"pong timeout not after ping", func(c *Config) { c.Sync.PongTimeout = c.Sync.PingInterval }},
		{"zero send buffer", func(c *Config) { c.Sync.SendBufferSize = 0 }},
		{"zero max message bytes", func(c *Config) { c.Sync.MaxMessageBytes = 0 }},
		{"empty jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"zero token ttl", func(c *Config) { c.Auth.TokenTTL = 0 }},
		{"empty uploads dir", func(c *Config) { c.Storage.UploadsDir = "" }},
		{"zero max upload", func(c *Config) { c.Storage.MaxUploadBytes = 0 }},
		{"redis enabled without address", func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.Address = ""
		}},
		{"rate limiting enabled without rate", func(c *Config) {
			c.RateLimiting.Enabled = true
			c.RateLimiting.HTTP.RequestsPerSecond = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadReadsYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  address: \":9000\"\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, "uploads", cfg.Storage.UploadsDir)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  address: \"\"\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TOGETHERWATCH_SERVER_ADDRESS", ":7777")
	t.Setenv("TOGETHERWATCH_JWT_SECRET", "env-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Address)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}
