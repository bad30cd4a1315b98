package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/TomGijsbers/evento-backend/pkg/httputil"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

func (s *Server) listEventFeedback(w http.ResponseWriter, r *http.Request) {
	if s.requireClaims(w, r) == nil {
		return
	}
	eventID, ok := httputil.ParsePathInt64OrError(w, r, "eventId")
	if !ok {
		return
	}

	rows, err := s.store.ListEventFeedback(r.Context(), eventID)
	if err != nil {
		s.storageError(r, "list_feedback", err)
		httputil.WriteInternalError(w, err)
		return
	}

	entries := make([]*FeedbackEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &FeedbackEntry{
			Author:    displayName(row.AuthorFirstName, row.AuthorLastName, row.AuthorEmail),
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		})
	}
	httputil.WriteSuccess(w, entries)
}

func (s *Server) postEventFeedback(w http.ResponseWriter, r *http.Request) {
	claims := s.requireClaims(w, r)
	if claims == nil {
		return
	}
	eventID, ok := httputil.ParsePathInt64OrError(w, r, "eventId")
	if !ok {
		return
	}
	var req PostFeedbackRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	user, err := s.store.GetUserBySubject(r.Context(), claims.Subject)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFoundMessage(w, "user")
		return
	}
	if err != nil {
		s.storageError(r, "get_user", err)
		httputil.WriteInternalError(w, err)
		return
	}

	feedback := &Feedback{
		EventID:   eventID,
		UserID:    user.ID,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateFeedback(r.Context(), feedback); err != nil {
		s.storageError(r, "create_feedback", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// displayName renders an author label from name fields, falling back to
// the email when both names are empty.
func displayName(firstName, lastName, email string) string {
	name := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if name == "" {
		return email
	}
	return name
}
