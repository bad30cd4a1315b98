package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/TomGijsbers/evento-backend/pkg/api"
	"github.com/TomGijsbers/evento-backend/pkg/auth"
	"github.com/TomGijsbers/evento-backend/pkg/storage/postgres"
)

// stubVerifier resolves tokens from a fixed table. Tokens are issued by
// the test harness, not parsed.
type stubVerifier struct {
	tokens map[string]*auth.Claims
}

func (v *stubVerifier) VerifyToken(_ context.Context, rawToken string) (*auth.Claims, error) {
	claims, ok := v.tokens[rawToken]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return claims, nil
}

// staticEmails resolves every token to the same email address.
type staticEmails struct {
	email string
}

func (e *staticEmails) Email(_ context.Context, accessToken string) string {
	if accessToken == "" {
		return ""
	}
	return e.email
}

type testServer struct {
	server   *api.Server
	store    *postgres.Store
	verifier *stubVerifier
}

// newTestServer wires the API server over a SQLite-backed store with
// token verification stubbed out.
func newTestServer(t *testing.T, opts api.ServerOptions) *testServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "api_test.db")
	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE locations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			latitude REAL NOT NULL DEFAULT 0,
			longitude REAL NOT NULL DEFAULT 0
		);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			event_date TIMESTAMP NOT NULL,
			location_id INTEGER NOT NULL REFERENCES locations(id)
		);

		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			UNIQUE(external_id)
		);

		CREATE TABLE event_registrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			registered_at TIMESTAMP NOT NULL,
			UNIQUE(event_id, user_id)
		);

		CREATE TABLE event_feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		);

		CREATE TABLE groups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE user_groups (
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			group_id INTEGER NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			joined_at TIMESTAMP NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (user_id, group_id)
		);
	`)
	require.NoError(t, err)

	store := postgres.NewStoreWithDB(db)
	verifier := &stubVerifier{tokens: make(map[string]*auth.Claims)}

	return &testServer{
		server:   api.NewServer(store, verifier, opts),
		store:    store,
		verifier: verifier,
	}
}

// issueToken registers a token for the subject with the given
// permissions and returns it.
func (ts *testServer) issueToken(subject, email string, permissions ...string) string {
	token := fmt.Sprintf("token-%d", len(ts.verifier.tokens)+1)
	ts.verifier.tokens[token] = &auth.Claims{
		Subject:     subject,
		Email:       email,
		Permissions: permissions,
		RawToken:    token,
	}
	return token
}

// issueClaims registers a token carrying the exact claim set and
// returns it, for tokens issueToken cannot shape.
func (ts *testServer) issueClaims(claims *auth.Claims) string {
	token := fmt.Sprintf("token-%d", len(ts.verifier.tokens)+1)
	claims.RawToken = token
	ts.verifier.tokens[token] = claims
	return token
}

// do executes a request against the server. A nil body sends no
// payload; anything else is JSON-encoded.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	r := httptest.NewRequest(method, path, reader)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, r)
	return w
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dest))
}

func (ts *testServer) mustCreateLocation(t *testing.T, name string) *api.Location {
	t.Helper()
	location := &api.Location{Name: name, Address: "Teststraat 1", Latitude: 51.2, Longitude: 4.4}
	require.NoError(t, ts.store.CreateLocation(context.Background(), location))
	return location
}

func (ts *testServer) mustCreateEvent(t *testing.T, name string, locationID int64) *api.Event {
	t.Helper()
	event := &api.Event{
		Name:       name,
		EventDate:  time.Now().UTC().AddDate(0, 0, 14),
		LocationID: locationID,
	}
	require.NoError(t, ts.store.CreateEvent(context.Background(), event))
	return event
}

func (ts *testServer) mustEnsureUser(t *testing.T, subject, email string) *api.User {
	t.Helper()
	user, _, err := ts.store.EnsureUser(context.Background(), subject, email)
	require.NoError(t, err)
	return user
}

func (ts *testServer) mustCreateGroup(t *testing.T, name string) *api.Group {
	t.Helper()
	group := &api.Group{Name: name, Description: "test group"}
	require.NoError(t, ts.store.CreateGroup(context.Background(), group))
	return group
}
