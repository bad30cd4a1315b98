package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TomGijsbers/evento-backend/pkg/api"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

// GetUserBySubject retrieves the local user for an external identity.
func (s *Store) GetUserBySubject(ctx context.Context, subject string) (*api.User, error) {
	query := `
		SELECT id, external_id, email, first_name, last_name
		FROM users
		WHERE external_id = $1
	`

	var user api.User
	err := s.db.QueryRowContext(ctx, query, subject).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// EnsureUser resolves or lazily creates the local user for a subject.
// A duplicate-key conflict on insert means a concurrent request created
// the row first; that attempt also succeeded, so the conflict is
// swallowed and the winner's row is returned. The bool reports whether
// this call created the row.
func (s *Store) EnsureUser(ctx context.Context, subject, email string) (*api.User, bool, error) {
	user, err := s.GetUserBySubject(ctx, subject)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (external_id, email, first_name, last_name) VALUES ($1, $2, '', '')`,
		subject, email,
	)
	if err != nil && !isUniqueViolation(err) {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	created := err == nil

	user, err = s.GetUserBySubject(ctx, subject)
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// UpdateUserProfile updates the caller's name fields.
func (s *Store) UpdateUserProfile(ctx context.Context, subject, firstName, lastName string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET first_name = $1, last_name = $2 WHERE external_id = $3`,
		firstName, lastName, subject,
	)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountUserRegistrations counts a user's registrations for the profile
// projection.
func (s *Store) CountUserRegistrations(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_registrations WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}
