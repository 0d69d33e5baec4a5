package serverapp

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questlog/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Server.DataDir = t.TempDir()
	cfg.Server.TelemetryPath = filepath.Join(cfg.Server.DataDir, "telemetry.db")

	app, err := New(Options{
		Config:           cfg,
		Logger:           log.New(io.Discard, "", 0),
		DisableTelemetry: true,
	})
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	w := do(t, app.Handler(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "questlog")
}

func TestQuestLifecycleEndToEnd(t *testing.T) {
	app := newTestApp(t)
	h := app.Handler()

	w := do(t, h, http.MethodPost, "/api/quests", `{"title":"Ship it","difficulty":"hard"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = do(t, h, http.MethodPost, fmt.Sprintf("/api/quests/%s/complete", created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"questsCompleted":1`)
}

func TestPerUserScopingViaHeader(t *testing.T) {
	app := newTestApp(t)
	h := app.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/quests", strings.NewReader(`{"title":"Alice quest","difficulty":"easy"}`))
	req.Header.Set("X-Questlog-User", "alice")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// The default user does not see alice's quest.
	w = do(t, h, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Alice quest")

	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("X-Questlog-User", "alice")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "Alice quest")
}

func TestAdminRoutesListing(t *testing.T) {
	app := newTestApp(t)
	h := app.Handler()

	w := do(t, h, http.MethodGet, "/_/admin/routes.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/quests/{id}/complete")

	w = do(t, h, http.MethodGet, "/_/admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "questlog")
}

func TestStatePersistsAcrossApps(t *testing.T) {
	cfg := config.Default()
	cfg.Server.DataDir = t.TempDir()

	first, err := New(Options{Config: cfg, Logger: log.New(io.Discard, "", 0), DisableTelemetry: true})
	require.NoError(t, err)

	w := do(t, first.Handler(), http.MethodPost, "/api/quests", `{"title":"Persisted","difficulty":"easy"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	first.Close()

	second, err := New(Options{Config: cfg, Logger: log.New(io.Discard, "", 0), DisableTelemetry: true})
	require.NoError(t, err)
	t.Cleanup(second.Close)

	w = do(t, second.Handler(), http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Persisted")
}
