package httputil

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteJSON(w, 200, map[string]string{"status": "ok"})
	require.NoError(t, err)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestWriteCreatedAt(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteCreatedAt(w, "/events/42", map[string]int{"id": 42})
	require.NoError(t, err)

	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "/events/42", w.Header().Get("Location"))
}

func TestWriteNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteNoContent(w)
	assert.Equal(t, 204, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

// TestErrorWriters verifies each taxonomy writer emits its status and message
func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name    string
		write   func(w *httptest.ResponseRecorder)
		status  int
		message string
	}{
		{"bad request", func(w *httptest.ResponseRecorder) { WriteBadRequest(w, "Name is required") }, 400, "Name is required"},
		{"unauthorized", func(w *httptest.ResponseRecorder) { WriteUnauthorized(w, "missing token") }, 401, "missing token"},
		{"forbidden", func(w *httptest.ResponseRecorder) { WriteForbidden(w, "insufficient permissions") }, 403, "insufficient permissions"},
		{"not found", func(w *httptest.ResponseRecorder) { WriteNotFound(w) }, 404, "not found"},
		{"not found message", func(w *httptest.ResponseRecorder) { WriteNotFoundMessage(w, "user") }, 404, "user"},
		{"conflict", func(w *httptest.ResponseRecorder) { WriteConflict(w, "already registered") }, 409, "already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

// TestWriteInternalError verifies the cause is never leaked to the client
func TestWriteInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteInternalError(w, errors.New("pq: connection refused"))

	assert.Equal(t, 500, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
}
