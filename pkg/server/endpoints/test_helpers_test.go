package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/hostwatch/pkg/config"
	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/sealer"
	"github.com/doodlesbykumbi/hostwatch/pkg/server"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
	badgerstore "github.com/doodlesbykumbi/hostwatch/pkg/server/store/badger"
	"github.com/doodlesbykumbi/hostwatch/pkg/session"
)

type testEnv struct {
	srv   *server.Server
	store *badgerstore.Store
}

func newTestEnv(t *testing.T, healthStore store.HealthStore) *testEnv {
	t.Helper()
	t.Setenv("HOSTWATCH_CONFIG_PATH", t.TempDir())

	cipher, err := sealer.New(make([]byte, sealer.KeySize))
	require.NoError(t, err)
	st, err := badgerstore.Open(badgerstore.Options{InMemory: true}, cipher)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	if healthStore == nil {
		healthStore = st
	}
	return newTestEnvWithService(t, fleet.NewService(st, st, fleet.WithBcryptCost(bcrypt.MinCost)), healthStore, st)
}

func newTestEnvWithService(t *testing.T, svc *fleet.Service, healthStore store.HealthStore, st *badgerstore.Store) *testEnv {
	t.Helper()
	t.Setenv("HOSTWATCH_CONFIG_PATH", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	sessions, err := session.NewManager([]byte(strings.Repeat("s", session.MinKeySize)), time.Hour)
	require.NoError(t, err)

	srv, err := server.NewServer(svc, sessions, healthStore, cfg, nil, "127.0.0.1", "0")
	require.NoError(t, err)
	RegisterAll(srv)
	return &testEnv{srv: srv, store: st}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

// owner registers an account through the API and returns a bearer token.
func (e *testEnv) owner(t *testing.T, email string) string {
	t.Helper()
	rec := e.postJSON("/api/user/register", map[string]string{"email": email, "password": "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.postJSON("/api/user/login", map[string]string{"email": email, "password": "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	return login.Token
}

func (e *testEnv) installToken(t *testing.T, bearer string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/user/token", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := e.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["token"]
}

func (e *testEnv) enroll(t *testing.T, installToken string) fleet.EnrollResult {
	t.Helper()
	rec := e.postJSON("/api/register", map[string]string{
		"hostname":      "web1",
		"username":      "root",
		"ip":            "10.0.0.5",
		"install_token": installToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res fleet.EnrollResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body["error"]
}

