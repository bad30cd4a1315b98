// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables
// with sensible defaults, plus an optional YAML overlay for deployments that
// prefer files over flags.
//
// # Configuration Structure
//
// Server settings:
//
//	EVENTO_HOST="0.0.0.0"
//	EVENTO_PORT="8080"
//	EVENTO_HEALTH_PORT="9090"
//	EVENTO_READ_TIMEOUT="15s"
//	EVENTO_WRITE_TIMEOUT="15s"
//	EVENTO_CORS_ORIGIN="http://localhost:5173"
//
// Database settings:
//
//	DATABASE_URL="postgres://localhost/evento?sslmode=disable"
//	EVENTO_DB_MAX_OPEN_CONNS="25"
//	EVENTO_SEED_DATA="false"
//
// Auth settings:
//
//	AUTH_ISSUER_URL="https://example.eu.auth0.com/"
//	AUTH_AUDIENCE="https://api.evento.example"
//
// Redis settings (optional; enables distributed rate limiting):
//
//	REDIS_URL="redis://localhost:6379"
//
// Observability settings:
//
//	EVENTO_LOG_LEVEL="info"  # debug, info, warn, error
//	EVENTO_METRICS_ENABLED="true"
//	EVENTO_OTEL_ENABLED="false"
//	EVENTO_OTEL_ENDPOINT="otel-collector:4317"
//
// # YAML Overlay
//
// Point EVENTO_CONFIG at a YAML file to override the environment:
//
//	server:
//	  port: "8081"
//	database:
//	  url: "postgres://db/evento"
//	auth:
//	  issuer_url: "https://example.eu.auth0.com/"
//	  audience: "https://api.evento.example"
//
// # Related Packages
//
//   - pkg/storage: Uses database configuration
//   - pkg/observability: Uses observability configuration
package config
