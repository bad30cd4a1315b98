package api

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TomGijsbers/evento-backend/pkg/auth"
	"github.com/TomGijsbers/evento-backend/pkg/httputil"
	"github.com/TomGijsbers/evento-backend/pkg/middleware"
	"github.com/TomGijsbers/evento-backend/pkg/observability"
)

// Server is the HTTP API over the event store.
type Server struct {
	store   Store
	router  *mux.Router
	logger  *observability.Logger
	metrics *observability.Metrics
	emails  auth.EmailResolver
}

// ServerOptions carries the optional collaborators of the API server.
// The zero value is valid: no metrics, no rate limiting, no out-of-band
// email resolution, logging to a discarded writer.
type ServerOptions struct {
	Logger  *observability.Logger
	Metrics *observability.Metrics

	// Emails resolves the caller's email via the identity provider
	// when the bearer token carries no email claim.
	Emails auth.EmailResolver

	// RateLimit, when set, runs between request identification and
	// authentication.
	RateLimit func(http.Handler) http.Handler
}

// NewServer creates the API server. Every route requires a valid bearer
// token; individual routes additionally require their policy's
// permission.
func NewServer(store Store, verifier auth.TokenVerifier, opts ServerOptions) *Server {
	s := &Server{
		store:   store,
		router:  mux.NewRouter(),
		logger:  opts.Logger,
		metrics: opts.Metrics,
		emails:  opts.Emails,
	}
	if s.logger == nil {
		s.logger = observability.NewLogger(observability.InfoLevel, io.Discard)
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(observability.RecoveryMiddleware(s.logger))
	if s.metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(s.metrics))
	}
	if opts.RateLimit != nil {
		s.router.Use(opts.RateLimit)
	}
	s.router.Use(middleware.NewAuthenticator(verifier, false, s.metrics).Handler)

	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	// Event routes
	s.router.Handle("/events", s.guarded(auth.PolicyReadEvents, s.listEvents)).Methods("GET")
	s.router.Handle("/events/{id}", s.guarded(auth.PolicyReadEvents, s.getEvent)).Methods("GET")
	s.router.Handle("/events", s.guarded(auth.PolicyCreateEvent, s.createEvent)).Methods("POST")
	s.router.Handle("/events/{id}", s.guarded(auth.PolicyDeleteEvents, s.deleteEvent)).Methods("DELETE")

	// Location routes
	s.router.Handle("/locations", s.guarded(auth.PolicyReadLocations, s.listLocations)).Methods("GET")
	s.router.Handle("/locations", s.guarded(auth.PolicyCreateLocation, s.createLocation)).Methods("POST")
	s.router.Handle("/locations/{id}", s.guarded(auth.PolicyDeleteLocation, s.deleteLocation)).Methods("DELETE")

	// Feedback routes (authenticated, no dedicated policy)
	s.router.HandleFunc("/events/{eventId}/feedback", s.listEventFeedback).Methods("GET")
	s.router.HandleFunc("/events/{eventId}/feedback", s.postEventFeedback).Methods("POST")

	// Registration routes
	s.router.HandleFunc("/registrations", s.listMyRegistrations).Methods("GET")
	s.router.Handle("/registrations/event/{id}", s.guarded(auth.PolicyReadEvents, s.listEventRegistrations)).Methods("GET")
	s.router.Handle("/registrations/event/{id}", s.guarded(auth.PolicyCreateRegistration, s.register)).Methods("POST")
	s.router.HandleFunc("/registrations/event/{id}/current", s.isRegistered).Methods("GET")
	s.router.Handle("/registrations/{id}", s.guarded(auth.PolicyDeleteRegistration, s.cancelRegistration)).Methods("DELETE")
	s.router.HandleFunc("/registrations/event/{id}/current", s.cancelOwnRegistration).Methods("DELETE")

	// User routes
	s.router.Handle("/users/profile", s.guarded(auth.PolicyReadProfile, s.getProfile)).Methods("GET")
	s.router.Handle("/users/profile", s.guarded(auth.PolicyUpdateProfile, s.updateProfile)).Methods("PUT")
	s.router.HandleFunc("/users/me", s.getMe).Methods("GET")

	// Group routes
	groupHandlers := NewGroupHandlers(s.store, s.logger, s.metrics)
	groupHandlers.RegisterRoutes(s.router)
}

// guarded wraps a handler behind a named policy gate and counts
// denials.
func (s *Server) guarded(policy auth.Policy, h http.HandlerFunc) http.Handler {
	gate := middleware.RequirePolicy(policy)(h)
	if s.metrics == nil {
		return gate
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := middleware.GetClaims(r); claims != nil && !policy.Allows(claims) {
			s.metrics.PolicyDenialsTotal.WithLabelValues(string(policy)).Inc()
		}
		gate.ServeHTTP(w, r)
	})
}

// requireClaims returns the caller's claims, writing a 401 and
// returning nil for anonymous requests. The authenticator normally
// rejects those first; this covers direct handler use.
func (s *Server) requireClaims(w http.ResponseWriter, r *http.Request) *auth.Claims {
	claims := middleware.GetClaims(r)
	if claims == nil {
		httputil.WriteUnauthorized(w, "authentication required")
		return nil
	}
	return claims
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RouteRegistrar is an interface for types that can register routes
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// RegisterRoutes registers routes from a RouteRegistrar
func (s *Server) RegisterRoutes(registrar RouteRegistrar) {
	registrar.RegisterRoutes(s.router)
}
