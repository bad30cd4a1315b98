package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomGijsbers/evento-backend/pkg/auth"
	"github.com/TomGijsbers/evento-backend/pkg/contextkeys"
)

// fakeVerifier accepts exactly one token and returns canned claims.
type fakeVerifier struct {
	token  string
	claims *auth.Claims
}

func (v *fakeVerifier) VerifyToken(_ context.Context, rawToken string) (*auth.Claims, error) {
	if rawToken != v.token {
		return nil, errors.New("unknown token")
	}
	return v.claims, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func withClaims(r *http.Request, claims *auth.Claims) *http.Request {
	return r.WithContext(contextkeys.WithClaims(r.Context(), claims))
}

func TestAuthenticator(t *testing.T) {
	verifier := &fakeVerifier{
		token: "good-token",
		claims: &auth.Claims{
			Subject:     "auth0|abc123",
			Permissions: []string{"read:events"},
		},
	}

	var seen *auth.Claims
	handler := NewAuthenticator(verifier, false, nil).Handler(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetClaims(r)
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"malformed", "Bearer", http.StatusUnauthorized},
		{"invalid token", "Bearer bad-token", http.StatusUnauthorized},
		{"valid token", "Bearer good-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "auth0|abc123", seen.Subject)
			} else {
				assert.Nil(t, seen)

				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestAuthenticator_OptionalMode(t *testing.T) {
	verifier := &fakeVerifier{token: "good-token", claims: &auth.Claims{Subject: "auth0|abc123"}}
	handler := NewAuthenticator(verifier, true, nil).Handler(okHandler())

	// No header passes through anonymously.
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A header that is present but invalid is still rejected.
	req = httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePolicy(t *testing.T) {
	handler := RequirePolicy(auth.PolicyCreateEvent)(okHandler())

	t.Run("anonymous is unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/events", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing permission is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/events", nil)
		req = withClaims(req, &auth.Claims{Subject: "auth0|abc", Permissions: []string{"read:events"}})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin override does not satisfy a policy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/events", nil)
		req = withClaims(req, &auth.Claims{Subject: "auth0|admin", Permissions: []string{auth.AdminOverridePermission}})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("granted permission passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/events", nil)
		req = withClaims(req, &auth.Claims{Subject: "auth0|abc", Permissions: []string{"create:event"}})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	var got string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = contextkeys.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, got)
	assert.Equal(t, got, rec.Header().Get("X-Request-ID"))

	// A client-supplied id is honored.
	req = httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("X-Request-ID", "client-chosen-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "client-chosen-id", got)
	assert.Equal(t, "client-chosen-id", rec.Header().Get("X-Request-ID"))
}
