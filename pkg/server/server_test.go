package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/hostwatch/pkg/config"
	"github.com/doodlesbykumbi/hostwatch/pkg/session"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("HOSTWATCH_CONFIG_PATH", t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)

	sessions, err := session.NewManager([]byte(strings.Repeat("k", session.MinKeySize)), time.Hour)
	require.NoError(t, err)

	s, err := NewServer(nil, sessions, nil, cfg, nil, "127.0.0.1", "0")
	require.NoError(t, err)
	return s
}

func TestNewServer_InvalidProxy(t *testing.T) {
	t.Setenv("HOSTWATCH_CONFIG_PATH", t.TempDir())
	t.Setenv("HOSTWATCH_TRUSTED_PROXIES", "garbage/77")
	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = NewServer(nil, nil, nil, cfg, nil, "127.0.0.1", "0")
	assert.Error(t, err)
}

func TestServer_SetConfig(t *testing.T) {
	s := newTestServer(t)
	assert.True(t, s.Config().RegistrationEnabled)

	next := *s.Config()
	next.RegistrationEnabled = false
	s.SetConfig(&next)
	assert.False(t, s.Config().RegistrationEnabled)
}

func TestServer_HandlerLogsAndRoutes(t *testing.T) {
	s := newTestServer(t)
	s.Router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestServer_ShutdownClosesResources(t *testing.T) {
	s := newTestServer(t)

	var order []string
	s.AddCloser(closerFunc(func() error { order = append(order, "store"); return nil }))
	s.AddCloser(closerFunc(func() error { order = append(order, "audit"); return errors.New("boom") }))

	err := s.Shutdown(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"store", "audit"}, order)

	// A second shutdown closes nothing again.
	assert.NoError(t, s.Shutdown(context.Background()))
	assert.Len(t, order, 2)
}
