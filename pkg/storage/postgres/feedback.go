package postgres

import (
	"context"
	"fmt"

	"github.com/TomGijsbers/evento-backend/pkg/api"
)

// ListEventFeedback returns feedback for an event, newest first, with
// the author columns needed to build a display name.
func (s *Store) ListEventFeedback(ctx context.Context, eventID int64) ([]*api.FeedbackRow, error) {
	query := `
		SELECT f.message, f.created_at, u.first_name, u.last_name, u.email
		FROM event_feedback f
		JOIN users u ON u.id = f.user_id
		WHERE f.event_id = $1
		ORDER BY f.created_at DESC, f.id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var feedback []*api.FeedbackRow
	for rows.Next() {
		row := &api.FeedbackRow{}
		if err := rows.Scan(&row.Message, &row.CreatedAt, &row.AuthorFirstName, &row.AuthorLastName, &row.AuthorEmail); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedback = append(feedback, row)
	}
	return feedback, rows.Err()
}

func (s *Store) CreateFeedback(ctx context.Context, fb *api.Feedback) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO event_feedback (event_id, user_id, message, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		fb.EventID, fb.UserID, fb.Message, fb.CreatedAt,
	).Scan(&fb.ID)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}
