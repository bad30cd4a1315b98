package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomGijsbers/evento-backend/pkg/observability"
)

// setRequiredEnv sets the minimum environment for LoadConfig to pass
// validation.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_ISSUER_URL", "https://example.eu.auth0.com/")
	t.Setenv("AUTH_AUDIENCE", "https://api.evento.example")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 25, cfg.Storage.MaxOpenConns)
	assert.False(t, cfg.Storage.SeedData)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, observability.InfoLevel, cfg.Observability.LogLevel)
	assert.False(t, cfg.Observability.OTelEnabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EVENTO_PORT", "3000")
	t.Setenv("DATABASE_URL", "postgres://db.internal/evento")
	t.Setenv("EVENTO_SEED_DATA", "true")
	t.Setenv("EVENTO_LOG_LEVEL", "debug")
	t.Setenv("EVENTO_READ_TIMEOUT", "45s")
	t.Setenv("REDIS_URL", "redis.internal:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "postgres://db.internal/evento", cfg.Storage.DatabaseURL)
	assert.True(t, cfg.Storage.SeedData)
	assert.Equal(t, observability.DebugLevel, cfg.Observability.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.URL)
}

func TestLoadConfig_YAMLOverlay(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EVENTO_PORT", "3000")

	path := filepath.Join(t.TempDir(), "evento.yaml")
	yaml := `
server:
  port: "4000"
database:
  url: "postgres://file-wins/evento"
  seed_data: true
observability:
  log_level: "warn"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("EVENTO_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// File beats environment.
	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, "postgres://file-wins/evento", cfg.Storage.DatabaseURL)
	assert.True(t, cfg.Storage.SeedData)
	assert.Equal(t, observability.WarnLevel, cfg.Observability.LogLevel)

	// Values the file omits keep their environment defaults.
	assert.Equal(t, "9090", cfg.Server.HealthPort)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EVENTO_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing issuer", func(c *Config) { c.Auth.IssuerURL = "" }, "issuer"},
		{"missing audience", func(c *Config) { c.Auth.Audience = "" }, "audience"},
		{"missing database", func(c *Config) { c.Storage.DatabaseURL = "" }, "database"},
		{"port clash", func(c *Config) { c.Server.HealthPort = c.Server.Port }, "different"},
		{"otel without endpoint", func(c *Config) {
			c.Observability.OTelEnabled = true
			c.Observability.OTelEndpoint = ""
		}, "endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			cfg, err := LoadConfig()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "custom")
	assert.Equal(t, "custom", getEnv("TEST_STR", "default"))
	assert.Equal(t, "default", getEnv("TEST_STR_UNSET", "default"))

	t.Setenv("TEST_BOOL", "1")
	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.True(t, getEnvBool("TEST_BOOL_UNSET", true))

	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getEnvInt("TEST_INT", 0))
	t.Setenv("TEST_INT_BAD", "nope")
	assert.Equal(t, 7, getEnvInt("TEST_INT_BAD", 7))

	t.Setenv("TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DUR", time.Second))
}
