package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/TomGijsbers/evento-backend/pkg/auth"
	"github.com/TomGijsbers/evento-backend/pkg/httputil"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

func (s *Server) listMyRegistrations(w http.ResponseWriter, r *http.Request) {
	claims := s.requireClaims(w, r)
	if claims == nil {
		return
	}

	registrations, err := s.store.ListRegistrationsBySubject(r.Context(), claims.Subject)
	if err != nil {
		s.storageError(r, "list_my_registrations", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, registrations)
}

func (s *Server) listEventRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	registrations, err := s.store.ListRegistrationsByEvent(r.Context(), eventID)
	if err != nil {
		s.storageError(r, "list_event_registrations", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, registrations)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	claims := s.requireClaims(w, r)
	if claims == nil {
		return
	}
	eventID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
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

	registration := &Registration{
		EventID:      eventID,
		UserID:       user.ID,
		RegisteredAt: time.Now().UTC(),
	}
	err = s.store.CreateRegistration(r.Context(), registration)
	if errors.Is(err, storage.ErrDuplicate) {
		if s.metrics != nil {
			s.metrics.RegistrationConflictsTotal.Inc()
		}
		httputil.WriteConflict(w, "already registered")
		return
	}
	if err != nil {
		s.storageError(r, "create_registration", err)
		httputil.WriteInternalError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RegistrationsCreatedTotal.Inc()
	}
	s.logger.WithSubject(claims.Subject).WithField("event_id", eventID).Info("registration created")

	detail := &RegistrationDetail{
		ID:           registration.ID,
		UserEmail:    user.Email,
		RegisteredAt: registration.RegisteredAt,
	}
	if event, err := s.store.GetEvent(r.Context(), eventID); err == nil {
		detail.EventName = event.Name
	}
	httputil.WriteCreatedAt(w, fmt.Sprintf("/registrations/%d", registration.ID), detail)
}

func (s *Server) isRegistered(w http.ResponseWriter, r *http.Request) {
	claims := s.requireClaims(w, r)
	if claims == nil {
		return
	}
	eventID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	user, err := s.store.GetUserBySubject(r.Context(), claims.Subject)
	if errors.Is(err, storage.ErrNotFound) {
		// No local user means no registrations yet.
		httputil.WriteSuccess(w, false)
		return
	}
	if err != nil {
		s.storageError(r, "get_user", err)
		httputil.WriteInternalError(w, err)
		return
	}

	registered, err := s.store.IsRegistered(r.Context(), eventID, user.ID)
	if err != nil {
		s.storageError(r, "is_registered", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, registered)
}

// cancelRegistration deletes a registration by id. Only the registrant
// may cancel it, unless the caller holds the admin override permission.
func (s *Server) cancelRegistration(w http.ResponseWriter, r *http.Request) {
	claims := s.requireClaims(w, r)
	if claims == nil {
		return
	}
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	registration, err := s.store.GetRegistration(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if err != nil {
		s.storageError(r, "get_registration", err)
		httputil.WriteInternalError(w, err)
		return
	}

	if !auth.OwnerOrAdmin(registration.OwnerSubject, claims) {
		httputil.WriteForbidden(w, "you may only cancel your own registrations")
		return
	}
	if claims.Subject != registration.OwnerSubject {
		if s.metrics != nil {
			s.metrics.AdminOverridesTotal.Inc()
		}
		s.logger.WithSubject(claims.Subject).WithField("registration_id", id).Info("registration cancelled via admin override")
	}

	err = s.store.DeleteRegistration(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if err != nil {
		s.storageError(r, "delete_registration", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (s *Server) cancelOwnRegistration(w http.ResponseWriter, r *http.Request) {
	claims := s.requireClaims(w, r)
	if claims == nil {
		return
	}
	eventID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
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

	err = s.store.DeleteRegistrationForUser(r.Context(), eventID, user.ID)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFound(w)
		return
	}
	if err != nil {
		s.storageError(r, "delete_registration", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
