package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMe_RequiresToken(t *testing.T) {
	ts := setupTestServer(t)

	for _, header := range []string{"", "Authorization: Bearer not-a-token", "Authorization: Basic abc"} {
		var resp = ts.api.Get("/api/v1/me")
		if header != "" {
			resp = ts.api.Get("/api/v1/me", header)
		}
		require.Equal(t, http.StatusUnauthorized, resp.Code, header)
		env := decodeEnvelope[any](t, resp)
		assert.False(t, env.Success)
		assert.Equal(t, "UNAUTHORIZED", env.Code)
	}
}

func TestGetMe_CreatesProfile(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/me", ts.aliceAuth(t))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	me := decodeEnvelope[ProfileResponse](t, resp).Data
	assert.Equal(t, "user-alice", me.UserID)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Equal(t, "alice", me.DisplayUsername)
	assert.False(t, me.IsAdmin)

	resp = ts.api.Get("/api/v1/me", ts.adminAuth(t))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decodeEnvelope[ProfileResponse](t, resp).Data.IsAdmin)
}

func TestUpdateMe(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.aliceAuth(t)

	resp := ts.api.Patch("/api/v1/me", auth, map[string]any{"full_name": "Alice Smith"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	me := decodeEnvelope[ProfileResponse](t, resp).Data
	assert.Equal(t, "Alice Smith", me.FullName)
	assert.Equal(t, "Alice Smith", me.DisplayName)
	assert.Equal(t, "alice", me.Username)

	resp = ts.api.Patch("/api/v1/me", auth, map[string]any{"username": "   "})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Equal(t, "VALIDATION", decodeEnvelope[any](t, resp).Code)
}
