package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/TomGijsbers/evento-backend/pkg/httputil"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

// getMe resolves the caller's local user record, creating it on first
// authenticated contact. The email comes from the token when present,
// otherwise from the identity provider's userinfo endpoint.
func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	claims := s.requireClaims(w, r)
	if claims == nil {
		return
	}

	email := claims.Email
	if email == "" && s.emails != nil {
		email = s.emails.Email(r.Context(), claims.RawToken)
	}

	user, created, err := s.store.EnsureUser(r.Context(), claims.Subject, email)
	if err != nil {
		s.storageError(r, "ensure_user", err)
		httputil.WriteInternalError(w, err)
		return
	}
	if created {
		if s.metrics != nil {
			s.metrics.UsersCreatedTotal.Inc()
		}
		s.logger.WithSubject(claims.Subject).Info("user created on first contact")
	}
	httputil.WriteSuccess(w, user)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	claims := s.requireClaims(w, r)
	if claims == nil {
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

	count, err := s.store.CountUserRegistrations(r.Context(), user.ID)
	if err != nil {
		s.storageError(r, "count_registrations", err)
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, &UserProfile{
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		RegistrationCount: count,
	})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims := s.requireClaims(w, r)
	if claims == nil {
		return
	}
	var req UpdateProfileRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	err := s.store.UpdateUserProfile(r.Context(), claims.Subject,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName))
	if errors.Is(err, storage.ErrNotFound) {
		httputil.WriteNotFoundMessage(w, "user")
		return
	}
	if err != nil {
		s.storageError(r, "update_profile", err)
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
