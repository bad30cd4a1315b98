package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/TomGijsbers/evento-backend/pkg/api"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

func (s *Store) ListGroups(ctx context.Context) ([]*api.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description FROM groups ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*api.Group
	for rows.Next() {
		group := &api.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Description); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func (s *Store) GetGroup(ctx context.Context, id int64) (*api.Group, error) {
	group := &api.Group{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM groups WHERE id = $1`, id,
	).Scan(&group.ID, &group.Name, &group.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

func (s *Store) CreateGroup(ctx context.Context, group *api.Group) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO groups (name, description) VALUES ($1, $2) RETURNING id`,
		group.Name, group.Description,
	).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

func (s *Store) UpdateGroup(ctx context.Context, group *api.Group) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE groups SET name = $1, description = $2 WHERE id = $3`,
		group.Name, group.Description, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
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

// DeleteGroup removes a group; memberships go with it via the cascading
// foreign key.
func (s *Store) DeleteGroup(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
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

// ListGroupMembers distinguishes a missing group from an empty one: a
// group that does not exist yields ErrNotFound, an empty group yields
// an empty slice.
func (s *Store) ListGroupMembers(ctx context.Context, groupID int64) ([]*api.User, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`, groupID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return nil, storage.ErrNotFound
	}

	query := `
		SELECT u.id, u.external_id, u.email, u.first_name, u.last_name
		FROM user_groups ug
		JOIN users u ON u.id = ug.user_id
		WHERE ug.group_id = $1
		ORDER BY ug.joined_at ASC, u.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []*api.User
	for rows.Next() {
		user := &api.User{}
		if err := rows.Scan(&user.ID, &user.ExternalID, &user.Email, &user.FirstName, &user.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, user)
	}
	return members, rows.Err()
}

func (s *Store) ListUserGroups(ctx context.Context, userID int64) ([]*api.Group, error) {
	query := `
		SELECT g.id, g.name, g.description
		FROM user_groups ug
		JOIN groups g ON g.id = ug.group_id
		WHERE ug.user_id = $1
		ORDER BY g.name ASC, g.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	defer rows.Close()

	var groups []*api.Group
	for rows.Next() {
		group := &api.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Description); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// AddGroupMember inserts the membership. As with registrations, the
// pre-check is advisory and the composite primary key is the final
// authority; both paths surface ErrDuplicate.
func (s *Store) AddGroupMember(ctx context.Context, groupID, userID int64) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_groups WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if exists {
		return storage.ErrDuplicate
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_groups (user_id, group_id, is_admin, joined_at)
		 VALUES ($1, $2, FALSE, $3)`,
		userID, groupID, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

func (s *Store) RemoveGroupMember(ctx context.Context, groupID, userID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM user_groups WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
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

// ToggleGroupAdmin flips the membership's admin flag in a single
// statement and returns the resulting value.
func (s *Store) ToggleGroupAdmin(ctx context.Context, groupID, userID int64) (bool, error) {
	var isAdmin bool
	err := s.db.QueryRowContext(ctx,
		`UPDATE user_groups SET is_admin = NOT is_admin
		 WHERE group_id = $1 AND user_id = $2
		 RETURNING is_admin`,
		groupID, userID,
	).Scan(&isAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return false, storage.ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle group admin: %w", err)
	}
	return isAdmin, nil
}
