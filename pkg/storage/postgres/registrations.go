package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TomGijsbers/evento-backend/pkg/api"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

// ListRegistrationsBySubject returns the caller's own registrations.
func (s *Store) ListRegistrationsBySubject(ctx context.Context, subject string) ([]*api.MyRegistration, error) {
	query := `
		SELECT r.id, e.name, r.registered_at
		FROM event_registrations r
		JOIN users u ON u.id = r.user_id
		JOIN events e ON e.id = r.event_id
		WHERE u.external_id = $1
		ORDER BY r.registered_at DESC, r.id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var registrations []*api.MyRegistration
	for rows.Next() {
		reg := &api.MyRegistration{}
		if err := rows.Scan(&reg.ID, &reg.EventName, &reg.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		registrations = append(registrations, reg)
	}
	return registrations, rows.Err()
}

// ListRegistrationsByEvent returns all registrations for one event.
func (s *Store) ListRegistrationsByEvent(ctx context.Context, eventID int64) ([]*api.RegistrationDetail, error) {
	query := `
		SELECT r.id, u.email, e.name, r.registered_at
		FROM event_registrations r
		JOIN users u ON u.id = r.user_id
		JOIN events e ON e.id = r.event_id
		WHERE r.event_id = $1
		ORDER BY r.registered_at ASC, r.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var registrations []*api.RegistrationDetail
	for rows.Next() {
		reg := &api.RegistrationDetail{}
		if err := rows.Scan(&reg.ID, &reg.UserEmail, &reg.EventName, &reg.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		registrations = append(registrations, reg)
	}
	return registrations, rows.Err()
}

// IsRegistered reports whether a registration exists for the pair.
func (s *Store) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM event_registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return exists, nil
}

// CreateRegistration inserts a registration for the (event, user) pair.
// The existence pre-check keeps most duplicates from reaching the
// constraint; the constraint remains the final authority under
// concurrency, and its violation maps to the same ErrDuplicate.
func (s *Store) CreateRegistration(ctx context.Context, reg *api.Registration) error {
	exists, err := s.IsRegistered(ctx, reg.EventID, reg.UserID)
	if err != nil {
		return err
	}
	if exists {
		return storage.ErrDuplicate
	}

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO event_registrations (event_id, user_id, registered_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		reg.EventID, reg.UserID, reg.RegisteredAt,
	).Scan(&reg.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

// GetRegistration retrieves a registration with its owner's external
// identity, for the owner-or-admin check on deletion.
func (s *Store) GetRegistration(ctx context.Context, id int64) (*api.Registration, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.registered_at, u.external_id
		FROM event_registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`

	reg := &api.Registration{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.RegisteredAt, &reg.OwnerSubject,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// DeleteRegistration removes a registration by its own id.
func (s *Store) DeleteRegistration(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM event_registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
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

// DeleteRegistrationForUser removes the registration for the pair. The
// lookup is inherently self-scoped, so no ownership check is needed.
func (s *Store) DeleteRegistrationForUser(ctx context.Context, eventID, userID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
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
