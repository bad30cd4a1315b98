package postgres

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/TomGijsbers/evento-backend/pkg/api"
)

// newTestStore opens a file-backed SQLite database so concurrent
// connections see the same data, with the schema the migrations build
// on PostgreSQL.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "store_test.db")
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

	return NewStoreWithDB(db)
}

func mustCreateLocation(t *testing.T, store *Store, name string) *api.Location {
	t.Helper()
	location := &api.Location{Name: name, Address: "Teststraat 1, Testdorp", Latitude: 51.0, Longitude: 4.0}
	require.NoError(t, store.CreateLocation(context.Background(), location))
	return location
}

func mustCreateEvent(t *testing.T, store *Store, name string, locationID int64) *api.Event {
	t.Helper()
	event := &api.Event{
		Name:       name,
		EventDate:  time.Now().UTC().AddDate(0, 0, 7).Truncate(time.Second),
		LocationID: locationID,
	}
	require.NoError(t, store.CreateEvent(context.Background(), event))
	return event
}

func mustEnsureUser(t *testing.T, store *Store, subject, email string) *api.User {
	t.Helper()
	user, _, err := store.EnsureUser(context.Background(), subject, email)
	require.NoError(t, err)
	return user
}

func mustCreateGroup(t *testing.T, store *Store, name string) *api.Group {
	t.Helper()
	group := &api.Group{Name: name, Description: "test group"}
	require.NoError(t, store.CreateGroup(context.Background(), group))
	return group
}
