package httputil

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"message":"hi"}`))

	var dest struct {
		Message string `json:"message"`
	}
	require.NoError(t, ParseJSON(r, &dest))
	assert.Equal(t, "hi", dest.Message)
}

func TestParseJSONInvalid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))

	var dest map[string]string
	err := ParseJSON(r, &dest)
	assert.Error(t, err)
}

func TestParseJSONOrError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))

	var dest map[string]string
	ok := ParseJSONOrError(w, r, &dest)

	assert.False(t, ok)
	assert.Equal(t, 400, w.Code)
}

func TestParsePathInt64(t *testing.T) {
	r := httptest.NewRequest("GET", "/events/42", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "42"})

	id, err := ParsePathInt64(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParsePathInt64Missing(t *testing.T) {
	r := httptest.NewRequest("GET", "/events", nil)

	_, err := ParsePathInt64(r, "id")
	assert.Error(t, err)
}

func TestParsePathInt64OrError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/events/abc", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "abc"})

	_, ok := ParsePathInt64OrError(w, r, "id")
	assert.False(t, ok)
	assert.Equal(t, 400, w.Code)
}
