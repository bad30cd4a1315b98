package postgres

import (
	"context"
	"fmt"
	"time"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns all schema migrations in order
func GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create locations table",
			SQL: `
				CREATE TABLE IF NOT EXISTS locations (
					id BIGSERIAL PRIMARY KEY,
					name TEXT NOT NULL,
					address TEXT NOT NULL DEFAULT '',
					latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
					longitude DOUBLE PRECISION NOT NULL DEFAULT 0
				);
			`,
		},
		{
			Version:     2,
			Description: "Create events table",
			SQL: `
				CREATE TABLE IF NOT EXISTS events (
					id BIGSERIAL PRIMARY KEY,
					name TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					event_date TIMESTAMP NOT NULL,
					location_id BIGINT NOT NULL REFERENCES locations(id)
				);

				CREATE INDEX idx_events_location_id ON events(location_id);
				CREATE INDEX idx_events_event_date ON events(event_date);
			`,
		},
		{
			Version:     3,
			Description: "Create users table with unique external identity",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					id BIGSERIAL PRIMARY KEY,
					external_id TEXT NOT NULL,
					email TEXT NOT NULL DEFAULT '',
					first_name TEXT NOT NULL DEFAULT '',
					last_name TEXT NOT NULL DEFAULT '',
					UNIQUE(external_id)
				);
			`,
		},
		{
			Version:     4,
			Description: "Create event_registrations table, one registration per user per event",
			SQL: `
				CREATE TABLE IF NOT EXISTS event_registrations (
					id BIGSERIAL PRIMARY KEY,
					event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					registered_at TIMESTAMP NOT NULL,
					UNIQUE(event_id, user_id)
				);

				CREATE INDEX idx_event_registrations_user_id ON event_registrations(user_id);
			`,
		},
		{
			Version:     5,
			Description: "Create event_feedback table",
			SQL: `
				CREATE TABLE IF NOT EXISTS event_feedback (
					id BIGSERIAL PRIMARY KEY,
					event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					message TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL
				);

				CREATE INDEX idx_event_feedback_event_id ON event_feedback(event_id);
			`,
		},
		{
			Version:     6,
			Description: "Create groups and user_groups tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS groups (
					id BIGSERIAL PRIMARY KEY,
					name TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT ''
				);

				CREATE TABLE IF NOT EXISTS user_groups (
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
					joined_at TIMESTAMP NOT NULL,
					is_admin BOOLEAN NOT NULL DEFAULT FALSE,
					PRIMARY KEY (user_id, group_id)
				);

				CREATE INDEX idx_user_groups_group_id ON user_groups(group_id);
			`,
		},
	}
}

// RunMigrations applies all pending migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}
	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	for _, migration := range GetMigrations() {
		if applied[migration.Version] {
			continue
		}
		if err := s.applyMigration(ctx, migration); err != nil {
			return fmt.Errorf("migration %d (%s): %w", migration.Version, migration.Description, err)
		}
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, migration Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, description, applied_at) VALUES ($1, $2, $3)",
		migration.Version, migration.Description, time.Now().UTC(),
	); err != nil {
		return err
	}
	return tx.Commit()
}
