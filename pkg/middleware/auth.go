package middleware

import (
	"net/http"
	"strings"

	"github.com/TomGijsbers/evento-backend/pkg/auth"
	"github.com/TomGijsbers/evento-backend/pkg/contextkeys"
	"github.com/TomGijsbers/evento-backend/pkg/httputil"
	"github.com/TomGijsbers/evento-backend/pkg/observability"
)

// Authenticator validates bearer tokens and attaches the resulting
// claims to the request context.
type Authenticator struct {
	verifier auth.TokenVerifier
	optional bool // If true, allow requests without auth
	metrics  *observability.Metrics
}

// NewAuthenticator creates authentication middleware. With optional set,
// requests without an Authorization header pass through anonymously;
// a header that is present but invalid is still rejected. Metrics may
// be nil.
func NewAuthenticator(verifier auth.TokenVerifier, optional bool, metrics *observability.Metrics) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		optional: optional,
		metrics:  metrics,
	}
}

func (m *Authenticator) countFailure(reason string) {
	if m.metrics != nil {
		m.metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	}
}

// Handler wraps an HTTP handler with authentication.
func (m *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			m.countFailure("missing_header")
			httputil.WriteUnauthorized(w, "missing authorization header")
			return
		}

		// Format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.countFailure("malformed_header")
			httputil.WriteUnauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.verifier.VerifyToken(r.Context(), parts[1])
		if err != nil {
			m.countFailure("invalid_token")
			httputil.WriteUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := contextkeys.WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaims extracts the authenticated claims from a request, or nil
// when the request is anonymous.
func GetClaims(r *http.Request) *auth.Claims {
	value := r.Context().Value(contextkeys.ClaimsKey)
	if value == nil {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// RequirePolicy gates a handler behind a named policy. Anonymous
// requests are rejected with 401; authenticated requests whose claims
// lack the policy's permission with 403. The admin override permission
// carries no weight here; it applies only to ownership checks.
func RequirePolicy(policy auth.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r)
			if claims == nil {
				httputil.WriteUnauthorized(w, "authentication required")
				return
			}

			if !policy.Allows(claims) {
				httputil.WriteForbidden(w, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
