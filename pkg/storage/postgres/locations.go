package postgres

import (
	"context"
	"fmt"

	"github.com/TomGijsbers/evento-backend/pkg/api"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

// ListLocations returns all locations.
func (s *Store) ListLocations(ctx context.Context) ([]*api.Location, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, address, latitude, longitude FROM locations ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locations []*api.Location
	for rows.Next() {
		location := &api.Location{}
		if err := rows.Scan(
			&location.ID, &location.Name, &location.Address,
			&location.Latitude, &location.Longitude,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, location)
	}
	return locations, rows.Err()
}

// CreateLocation inserts a location and fills in its assigned id.
func (s *Store) CreateLocation(ctx context.Context, location *api.Location) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO locations (name, address, latitude, longitude)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		location.Name, location.Address, location.Latitude, location.Longitude,
	).Scan(&location.ID)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return nil
}

// DeleteLocation removes a location. Locations still referenced by
// events are refused rather than orphaning the events' foreign keys.
func (s *Store) DeleteLocation(ctx context.Context, id int64) error {
	var inUse bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE location_id = $1)`, id,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check location references: %w", err)
	}
	if inUse {
		return storage.ErrLocationInUse
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
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
