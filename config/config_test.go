package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useConfigFile(t *testing.T, contents string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if contents != "" {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	}
	t.Setenv("CONCIERGE_CONFIG", path)
}

func TestLoadDefaults(t *testing.T) {
	useConfigFile(t, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "database", cfg.Cache.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.Enabled())
}

func TestLoadPrecedence(t *testing.T) {
	useConfigFile(t, "server:\n  port: 7000\nlog_level: debug\ncache:\n  ttl: 5m\n")
	t.Setenv("PORT", "8080")
	t.Setenv("CONCIERGE_LOG_LEVEL", "warn")
	t.Setenv("CONCIERGE_SERVER__READ_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoadPrefixedOverridesLegacy(t *testing.T) {
	useConfigFile(t, "")
	t.Setenv("DATABASE_URL", "./legacy.db")
	t.Setenv("CONCIERGE_DATABASE__URL", "./preferred.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./preferred.db", cfg.Database.URL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, "unknown cache driver"},
		{"redis without url", func(c *Config) { c.Cache.Driver = "redis" }, "requires cache.redis_url"},
		{"api key without secret", func(c *Config) { c.Auth.APIKeyHash = "$2a$10$abc" }, "requires auth.jwt_secret"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := Defaults()
	assert.True(t, cfg.IsDevelopment())
	cfg.Environment = "production"
	assert.False(t, cfg.IsDevelopment())
}
