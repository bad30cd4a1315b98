package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TomGijsbers/evento-backend/pkg/api"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

// ListEvents returns all events with their locations, soonest first.
func (s *Store) ListEvents(ctx context.Context) ([]*api.Event, error) {
	query := `
		SELECT e.id, e.name, e.description, e.event_date, e.location_id,
		       l.id, l.name, l.address, l.latitude, l.longitude
		FROM events e
		JOIN locations l ON l.id = e.location_id
		ORDER BY e.event_date ASC, e.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*api.Event
	for rows.Next() {
		event := &api.Event{Location: &api.Location{}}
		if err := rows.Scan(
			&event.ID, &event.Name, &event.Description, &event.EventDate, &event.LocationID,
			&event.Location.ID, &event.Location.Name, &event.Location.Address,
			&event.Location.Latitude, &event.Location.Longitude,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// GetEvent retrieves an event with its location.
func (s *Store) GetEvent(ctx context.Context, id int64) (*api.Event, error) {
	query := `
		SELECT e.id, e.name, e.description, e.event_date, e.location_id,
		       l.id, l.name, l.address, l.latitude, l.longitude
		FROM events e
		JOIN locations l ON l.id = e.location_id
		WHERE e.id = $1
	`

	event := &api.Event{Location: &api.Location{}}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID, &event.Name, &event.Description, &event.EventDate, &event.LocationID,
		&event.Location.ID, &event.Location.Name, &event.Location.Address,
		&event.Location.Latitude, &event.Location.Longitude,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// CreateEvent inserts an event and fills in its assigned id.
func (s *Store) CreateEvent(ctx context.Context, event *api.Event) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO events (name, description, event_date, location_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		event.Name, event.Description, event.EventDate, event.LocationID,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// DeleteEvent removes an event. Registrations and feedback cascade.
func (s *Store) DeleteEvent(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
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
