package storage

import "time"

// Config holds database connection configuration
type Config struct {
	// DatabaseURL is the PostgreSQL connection URL
	DatabaseURL string

	// Connection pool settings
	MaxOpenConns int
	MaxIdleConns int
	ConnTimeout  time.Duration

	// SeedData inserts demo locations and events into an empty database
	SeedData bool
}

// DefaultConfig returns sensible defaults for local development
func DefaultConfig() Config {
	return Config{
		DatabaseURL:  "postgres://localhost/evento?sslmode=disable",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
		ConnTimeout:  10 * time.Second,
	}
}
