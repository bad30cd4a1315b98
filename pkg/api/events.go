package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/TomGijsbers/evento-backend/pkg/contextkeys"
	"github.com/TomGijsbers/evento-backend/pkg/httputil"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		s.storageError(r, "list_events", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, events)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	event, err := s.store.GetEvent(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if err != nil {
		s.storageError(r, "get_event", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, event)
}

// CreateEventRequest is the POST /events body.
type CreateEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	LocationID  int64     `json:"location_id"`
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httputil.WriteBadRequest(w, "Name is required")
		return
	}

	// Dates are compared at day granularity in UTC: an event later
	// today is allowed, yesterday is not.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if req.EventDate.UTC().Truncate(24 * time.Hour).Before(today) {
		httputil.WriteBadRequest(w, "EventDate cannot be in the past")
		return
	}

	event := &Event{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		EventDate:   req.EventDate.UTC(),
		LocationID:  req.LocationID,
	}
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		s.storageError(r, "create_event", err)
		httputil.WriteInternalError(w, err)
		return
	}

	s.logger.WithField("event_id", event.ID).Info("event created")
	httputil.WriteCreatedAt(w, fmt.Sprintf("/events/%d", event.ID), event)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	err := s.store.DeleteEvent(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if err != nil {
		s.storageError(r, "delete_event", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// storageError logs an unexpected persistence failure and counts it.
// Expected sentinel outcomes never reach here.
func (s *Server) storageError(r *http.Request, operation string, err error) {
	logger := s.logger
	if requestID := contextkeys.GetRequestID(r.Context()); requestID != "" {
		logger = logger.WithField("request_id", requestID)
	}
	logger.WithError(err).WithField("operation", operation).Error("storage operation failed")
	if s.metrics != nil {
		s.metrics.StorageErrorsTotal.WithLabelValues(operation).Inc()
	}
}
