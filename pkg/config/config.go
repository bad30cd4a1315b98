package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/TomGijsbers/evento-backend/pkg/observability"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Auth configuration
	Auth AuthConfig

	// Redis configuration (rate limiting; optional)
	Redis RedisConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// CORSOrigin is the allowed browser origin for the frontend
	CORSOrigin string
}

// AuthConfig holds identity provider configuration
type AuthConfig struct {
	// IssuerURL is the identity provider's issuer, used for OIDC
	// discovery (signing keys and the userinfo endpoint)
	IssuerURL string

	// Audience is the API identifier tokens must be issued for
	Audience string
}

// RedisConfig holds Redis connection settings. An empty URL disables
// distributed rate limiting; the in-memory limiter is used instead.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// fileConfig is the YAML overlay shape. Only fields that are set
// override the environment-derived value.
type fileConfig struct {
	Server struct {
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		HealthPort string `yaml:"health_port"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"server"`
	Database struct {
		URL          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		SeedData     *bool  `yaml:"seed_data"`
	} `yaml:"database"`
	Auth struct {
		IssuerURL string `yaml:"issuer_url"`
		Audience  string `yaml:"audience"`
	} `yaml:"auth"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	Observability struct {
		LogLevel     string `yaml:"log_level"`
		OTelEnabled  *bool  `yaml:"otel_enabled"`
		OTelEndpoint string `yaml:"otel_endpoint"`
	} `yaml:"observability"`
}

// LoadConfig loads configuration from environment variables, applying
// the YAML file named by EVENTO_CONFIG on top when present.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Auth:          loadAuthConfig(),
		Redis:         loadRedisConfig(),
		Observability: loadObservabilityConfig(),
	}

	if path := getEnv("EVENTO_CONFIG", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("EVENTO_HOST", "0.0.0.0"),
		Port:            getEnv("EVENTO_PORT", "8080"),
		ReadTimeout:     getEnvDuration("EVENTO_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("EVENTO_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("EVENTO_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("EVENTO_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("EVENTO_HEALTH_PORT", "9090"),
		CORSOrigin:      getEnv("EVENTO_CORS_ORIGIN", "http://localhost:5173"),
	}
}

// loadStorageConfig loads storage configuration from environment
func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	if url := getEnv("DATABASE_URL", ""); url != "" {
		cfg.DatabaseURL = url
	}
	if maxConns := getEnvInt("EVENTO_DB_MAX_OPEN_CONNS", 0); maxConns > 0 {
		cfg.MaxOpenConns = maxConns
	}
	if idleConns := getEnvInt("EVENTO_DB_MAX_IDLE_CONNS", 0); idleConns > 0 {
		cfg.MaxIdleConns = idleConns
	}
	if timeout := getEnvDuration("EVENTO_DB_CONN_TIMEOUT", 0); timeout > 0 {
		cfg.ConnTimeout = timeout
	}
	cfg.SeedData = getEnvBool("EVENTO_SEED_DATA", false)

	return cfg
}

// loadAuthConfig loads identity provider configuration from environment
func loadAuthConfig() AuthConfig {
	return AuthConfig{
		IssuerURL: getEnv("AUTH_ISSUER_URL", ""),
		Audience:  getEnv("AUTH_AUDIENCE", ""),
	}
}

// loadRedisConfig loads Redis configuration from environment
func loadRedisConfig() RedisConfig {
	return RedisConfig{
		URL:      getEnv("REDIS_URL", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           parseLogLevel(getEnv("EVENTO_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("EVENTO_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("EVENTO_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("EVENTO_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("EVENTO_OTEL_SERVICE_NAME", "evento-backend"),
		OTelServiceVersion: getEnv("EVENTO_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("EVENTO_OTEL_INSECURE", true),
	}
}

// applyFile overlays a YAML config file onto the current configuration.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	if fc.Server.Host != "" {
		c.Server.Host = fc.Server.Host
	}
	if fc.Server.Port != "" {
		c.Server.Port = fc.Server.Port
	}
	if fc.Server.HealthPort != "" {
		c.Server.HealthPort = fc.Server.HealthPort
	}
	if fc.Server.CORSOrigin != "" {
		c.Server.CORSOrigin = fc.Server.CORSOrigin
	}
	if fc.Database.URL != "" {
		c.Storage.DatabaseURL = fc.Database.URL
	}
	if fc.Database.MaxOpenConns > 0 {
		c.Storage.MaxOpenConns = fc.Database.MaxOpenConns
	}
	if fc.Database.SeedData != nil {
		c.Storage.SeedData = *fc.Database.SeedData
	}
	if fc.Auth.IssuerURL != "" {
		c.Auth.IssuerURL = fc.Auth.IssuerURL
	}
	if fc.Auth.Audience != "" {
		c.Auth.Audience = fc.Auth.Audience
	}
	if fc.Redis.URL != "" {
		c.Redis.URL = fc.Redis.URL
	}
	if fc.Observability.LogLevel != "" {
		c.Observability.LogLevel = parseLogLevel(fc.Observability.LogLevel)
	}
	if fc.Observability.OTelEnabled != nil {
		c.Observability.OTelEnabled = *fc.Observability.OTelEnabled
	}
	if fc.Observability.OTelEndpoint != "" {
		c.Observability.OTelEndpoint = fc.Observability.OTelEndpoint
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Storage.DatabaseURL == "" {
		return fmt.Errorf("database URL is required")
	}

	if c.Auth.IssuerURL == "" {
		return fmt.Errorf("auth issuer URL is required")
	}
	if c.Auth.Audience == "" {
		return fmt.Errorf("auth audience is required")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
