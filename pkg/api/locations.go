package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/TomGijsbers/evento-backend/pkg/httputil"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

func (s *Server) listLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.store.ListLocations(r.Context())
	if err != nil {
		s.storageError(r, "list_locations", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, locations)
}

func (s *Server) createLocation(w http.ResponseWriter, r *http.Request) {
	var location Location
	if !httputil.ParseJSONOrError(w, r, &location) {
		return
	}

	location.ID = 0
	location.Name = strings.TrimSpace(location.Name)
	if location.Name == "" {
		httputil.WriteBadRequest(w, "Name is required")
		return
	}

	if err := s.store.CreateLocation(r.Context(), &location); err != nil {
		s.storageError(r, "create_location", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteCreated(w, &location)
}

func (s *Server) deleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	err := s.store.DeleteLocation(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if errors.Is(err, storage.ErrLocationInUse) {
		httputil.WriteConflict(w, "location is referenced by events")
		return
	}
	if err != nil {
		s.storageError(r, "delete_location", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
