package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomGijsbers/evento-backend/pkg/api"
)

func TestListLocations(t *testing.T) {
	ts := newTestServer(t, api.ServerOptions{})
	ts.mustCreateLocation(t, "De Oude Fabriek")
	token := ts.issueToken("auth0|reader", "reader@example.com", "read:locations")

	w := ts.do(t, http.MethodGet, "/locations", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var locations []*api.Location
	decodeJSON(t, w, &locations)
	require.Len(t, locations, 1)
	assert.Equal(t, "De Oude Fabriek", locations[0].Name)
}

func TestCreateLocation(t *testing.T) {
	ts := newTestServer(t, api.ServerOptions{})
	token := ts.issueToken("auth0|planner", "planner@example.com", "create:locations")

	w := ts.do(t, http.MethodPost, "/locations", token, map[string]interface{}{
		"name":      "Het Pakhuis",
		"address":   "Kade 7, Antwerpen",
		"latitude":  51.22,
		"longitude": 4.40,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var location api.Location
	decodeJSON(t, w, &location)
	assert.NotZero(t, location.ID)
	assert.Equal(t, "Het Pakhuis", location.Name)
}

func TestCreateLocationRequiresName(t *testing.T) {
	ts := newTestServer(t, api.ServerOptions{})
	token := ts.issueToken("auth0|planner", "planner@example.com", "create:locations")

	w := ts.do(t, http.MethodPost, "/locations", token, map[string]interface{}{
		"name":    "   ",
		"address": "Kade 7, Antwerpen",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name is required")
}

func TestDeleteLocation(t *testing.T) {
	ts := newTestServer(t, api.ServerOptions{})
	location := ts.mustCreateLocation(t, "De Loods")
	token := ts.issueToken("auth0|planner", "planner@example.com", "delete:locations")

	w := ts.do(t, http.MethodDelete, "/locations/"+itoa(location.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodDelete, "/locations/"+itoa(location.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteLocationStillReferenced(t *testing.T) {
	ts := newTestServer(t, api.ServerOptions{})
	location := ts.mustCreateLocation(t, "De Loods")
	ts.mustCreateEvent(t, "Hosted Here", location.ID)
	token := ts.issueToken("auth0|planner", "planner@example.com", "delete:locations")

	w := ts.do(t, http.MethodDelete, "/locations/"+itoa(location.ID), token, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "referenced by events")
}
