package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authProtected(t *testing.T, apiKey string) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return AuthMiddleware(apiKey, nil)(next)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ingest/x/status", nil)

	authProtected(t, "secret").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing authorization", body["error"])
}

func TestAuthMiddleware_WrongKey(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ingest/x/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")

	authProtected(t, "secret").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid api key", body["error"])
}

func TestAuthMiddleware_ValidKey(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ingest/x/status", nil)
	req.Header.Set("Authorization", "Bearer secret")

	authProtected(t, "secret").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
