package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/hostwatch/pkg/identity"
	"github.com/doodlesbykumbi/hostwatch/pkg/session"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager([]byte(strings.Repeat("k", session.MinKeySize)), time.Hour)
	require.NoError(t, err)
	return m
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(id.UserID + "|" + id.Email + "|" + id.RemoteIP.String()))
	})
}

func TestSessionMiddleware_Bearer(t *testing.T) {
	m := newManager(t)
	token, _, err := m.Issue("u-1", "owner@example.com")
	require.NoError(t, err)

	handler := NewSessionAuthenticator(m, nil).Middleware(echoIdentity())

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1|owner@example.com|10.1.2.3", w.Body.String())
}

func TestSessionMiddleware_Cookie(t *testing.T) {
	m := newManager(t)
	token, _, err := m.Issue("u-1", "owner@example.com")
	require.NoError(t, err)

	handler := NewSessionAuthenticator(m, nil).Middleware(echoIdentity())

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionMiddleware_Rejects(t *testing.T) {
	m := newManager(t)
	handler := NewSessionAuthenticator(m, nil).Middleware(echoIdentity())

	other, err := session.NewManager([]byte(strings.Repeat("z", session.MinKeySize)), time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue("u-1", "owner@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "wrong scheme", header: "Token token=\"abc\""},
		{name: "garbage", header: "Bearer not-a-jwt"},
		{name: "foreign key", header: "Bearer " + foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
		})
	}
}
