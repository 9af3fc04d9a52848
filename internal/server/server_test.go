package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LanternOps/breeze-viewer/internal/domain/routing"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/config"
	"github.com/LanternOps/breeze-viewer/internal/infrastructure/singleinstance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.RateLimit.Enabled = false
	cfg.DeepLink.RetryShort = time.Microsecond
	cfg.DeepLink.RetryLong = time.Microsecond
	cfg.DeepLink.SingleInstanceSocket = filepath.Join(t.TempDir(), "breeze.sock")

	srv, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func (s *Server) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *Server) post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, req)
	return rec
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestLaunchActivationSeedsPrimary(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Start([]string{"breeze://x?session=abc"}))
	srv.Router().Retrier().Wait()

	assert.True(t, srv.windows.HasWindow(routing.PrimaryLabel))

	url, ok := srv.Router().GetPendingLink(routing.PrimaryLabel)
	require.True(t, ok)
	assert.Equal(t, "breeze://x?session=abc", url)
}

func TestLaunchWithoutDeepLink(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Start(nil))

	assert.True(t, srv.windows.HasWindow(routing.PrimaryLabel))
	_, ok := srv.Router().GetPendingLink(routing.PrimaryLabel)
	assert.False(t, ok)
}

func TestSecondInstanceHandoff(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Start(nil))
	socket := srv.cfg.DeepLink.SingleInstanceSocket

	// Mark the primary busy, as a connected frontend would.
	rec := srv.post(t, "/api/windows/main/session", `{"session_id":"abc"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// A second process instance forwards its argv and exits; the link
	// must open a new window here.
	require.NoError(t, singleinstance.Forward(socket,
		[]string{"/usr/bin/viewer", "breeze://x?session=def"}))
	waitFor(t, "session window", func() bool {
		return srv.windows.HasWindow("session-1")
	})
	srv.Router().Retrier().Wait()

	url, ok := srv.Router().GetPendingLink("session-1")
	require.True(t, ok)
	assert.Equal(t, "breeze://x?session=def", url)

	// Routing the same session again focuses instead of duplicating.
	srv.post(t, "/api/windows/session-1/session", `{"session_id":"def"}`)
	require.NoError(t, singleinstance.Forward(socket,
		[]string{"/usr/bin/viewer", "breeze://x?session=def"}))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, srv.windows.HasWindow("session-2"))
}

func TestSecondInstanceClaimRejected(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Start(nil))

	second, err := New(srv.cfg)
	require.NoError(t, err)
	err = second.Start([]string{"breeze://x?session=abc"})
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestLiveActivationEndpoint(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Start(nil))

	rec := srv.post(t, "/api/activate", `{"url":"breeze://x?session=abc"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	srv.Router().Retrier().Wait()

	url, ok := srv.Router().GetPendingLink(routing.PrimaryLabel)
	require.True(t, ok)
	assert.Equal(t, "breeze://x?session=abc", url)

	rec = srv.post(t, "/api/activate", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.Start(nil))

	rec := srv.get(t, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = srv.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "viewer_windows_open")
}
