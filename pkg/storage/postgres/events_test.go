package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomGijsbers/evento-backend/pkg/api"
	"github.com/TomGijsbers/evento-backend/pkg/storage"
)

func TestEvents_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	location := mustCreateLocation(t, store, "Eventhal Zuid")

	event := &api.Event{
		Name:        "Koekjesroof Speurtocht",
		Description: "Vind de geheime stash speculaas.",
		EventDate:   time.Now().UTC().AddDate(0, 1, 0).Truncate(time.Second),
		LocationID:  location.ID,
	}
	require.NoError(t, store.CreateEvent(ctx, event))
	require.NotZero(t, event.ID)

	got, err := store.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Name, got.Name)
	assert.Equal(t, event.Description, got.Description)
	require.NotNil(t, got.Location)
	assert.Equal(t, location.Name, got.Location.Name)
	assert.Equal(t, location.ID, got.LocationID)

	require.NoError(t, store.DeleteEvent(ctx, event.ID))
	_, err = store.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.DeleteEvent(ctx, event.ID), storage.ErrNotFound)
}

func TestListEvents_OrderedByDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	location := mustCreateLocation(t, store, "Volgorde Veld")
	base := time.Now().UTC().Truncate(time.Second)

	later := &api.Event{Name: "Later", EventDate: base.AddDate(0, 0, 20), LocationID: location.ID}
	sooner := &api.Event{Name: "Sooner", EventDate: base.AddDate(0, 0, 2), LocationID: location.ID}
	require.NoError(t, store.CreateEvent(ctx, later))
	require.NoError(t, store.CreateEvent(ctx, sooner))

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Sooner", events[0].Name)
	assert.Equal(t, "Later", events[1].Name)
}

func TestLocations_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	location := &api.Location{
		Name:      "Gestolen Bakfiets Centrale",
		Address:   "Stationsplein 14, Utrecht",
		Latitude:  52.089,
		Longitude: 5.110,
	}
	require.NoError(t, store.CreateLocation(ctx, location))
	require.NotZero(t, location.ID)

	locations, err := store.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, location.Name, locations[0].Name)
	assert.InDelta(t, 52.089, locations[0].Latitude, 0.0001)

	require.NoError(t, store.DeleteLocation(ctx, location.ID))
	assert.ErrorIs(t, store.DeleteLocation(ctx, location.ID), storage.ErrNotFound)
}

func TestDeleteLocation_RefusedWhileReferenced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	location := mustCreateLocation(t, store, "Bezet Pand")
	event := mustCreateEvent(t, store, "Blijvend Event", location.ID)

	assert.ErrorIs(t, store.DeleteLocation(ctx, location.ID), storage.ErrLocationInUse)

	// Once the referencing event is gone the delete goes through.
	require.NoError(t, store.DeleteEvent(ctx, event.ID))
	require.NoError(t, store.DeleteLocation(ctx, location.ID))
}

func TestSeed_PopulatesOnlyEmptyDatabase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx))

	locations, err := store.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, locations, len(seedLocations))

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, len(seedEvents))

	// Seeding again is a no-op.
	require.NoError(t, store.Seed(ctx))
	locations, err = store.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, locations, len(seedLocations))
}
