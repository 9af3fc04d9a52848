package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LanternOps/breeze-viewer/internal/api/ws"
	"github.com/LanternOps/breeze-viewer/internal/domain/routing"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/webview"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	engine  *gin.Engine
	router  *routing.Router
	windows *webview.Host
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logging.NewNop()
	hub := ws.NewHub(log)
	windows := webview.NewHost(hub, webview.Config{}, log)
	router := routing.NewRouter(windows, log).
		WithRetryDelays(time.Microsecond, time.Microsecond)
	windows.OnDestroyed(router.WindowDestroyed)
	require.NoError(t, windows.CreateWindow(routing.PrimaryLabel))

	engine := gin.New()
	NewHandler(router, windows, log).Register(engine.Group("/api"))
	return &fixture{engine: engine, router: router, windows: windows}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestGetPendingLink(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/windows/main/deeplink", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	f.router.HandleLaunch("breeze://x?session=abc")
	f.router.Retrier().Wait()

	rec = f.do(http.MethodGet, "/api/windows/main/deeplink", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "breeze://x?session=abc", body["url"])

	// Polling does not consume.
	rec = f.do(http.MethodGet, "/api/windows/main/deeplink", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClearPendingLink(t *testing.T) {
	f := newFixture(t)
	f.router.HandleLaunch("breeze://x?session=abc")
	f.router.Retrier().Wait()

	rec := f.do(http.MethodDelete, "/api/windows/main/deeplink", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodGet, "/api/windows/main/deeplink", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRegisterAndUnregisterSession(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/windows/main/session", `{"session_id":"abc"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, f.router.Stats().ActiveSessions)

	rec = f.do(http.MethodDelete, "/api/windows/main/session", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, f.router.Stats().ActiveSessions)
}

func TestRegisterSessionValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/windows/main/session", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/api/windows/main/session", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloseWindow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.windows.CreateWindow("session-1"))
	f.router.RegisterSession("session-1", "def")

	rec := f.do(http.MethodDelete, "/api/windows/session-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, f.windows.HasWindow("session-1"))
	// The destroy path pruned the session binding.
	assert.Equal(t, 0, f.router.Stats().ActiveSessions)

	rec = f.do(http.MethodDelete, "/api/windows/session-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestState(t *testing.T) {
	f := newFixture(t)
	f.router.RegisterSession("main", "abc")
	f.router.HandleLaunch("breeze://x?session=abc")
	f.router.Retrier().Wait()

	rec := f.do(http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		PendingLinks   int      `json:"pending_links"`
		ActiveSessions int      `json:"active_sessions"`
		Windows        []string `json:"windows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.PendingLinks)
	assert.Equal(t, 1, body.ActiveSessions)
	assert.Equal(t, []string{"main"}, body.Windows)
}
