// Package middleware provides HTTP middleware for authentication, policy
// enforcement, and rate limiting.
//
// # Overview
//
// This package implements request processing middleware: bearer token
// authentication against the identity provider, named-policy permission
// gates, request IDs, and rate limiting (in-memory and Redis-backed).
//
// # Middleware Components
//
// Authenticator: bearer token authentication
//
//	authn := middleware.NewAuthenticator(verifier, optional=false)
//	router.Use(authn.Handler)
//	// Extracts the Bearer token, validates it, adds Claims to the request
//
// RequirePolicy: per-route permission gate
//
//	r.Handle("/events", middleware.RequirePolicy(auth.PolicyCreateEvent)(h))
//	// 401 without claims, 403 without the policy's permission
//
// RequestID: correlation id per request
//
//	router.Use(middleware.RequestID)
//
// RateLimitMiddleware: in-memory rate limiting
//
//	router.Use(middleware.NewRateLimitMiddleware().Handler)
//
// DistributedRateLimitMiddleware: Redis-backed rate limiting
//
//	router.Use(middleware.NewDistributedRateLimitMiddleware(redisClient).Handler)
//
// # Rate Limiting
//
// Default (Anonymous): 100 req/min, 10 burst
// Per-User: 1000 req/min, 50 burst
//
// # Related Packages
//
//   - pkg/auth: token validation, policies, ownership
//   - pkg/contextkeys: claim and request id context keys
package middleware
