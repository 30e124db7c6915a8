package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/hostwatch/pkg/audit"
	"github.com/doodlesbykumbi/hostwatch/pkg/sealer"
)

func TestWithMigrationsTable(t *testing.T) {
	for _, in := range []string{
		"postgres://u:p@localhost:5432/hostwatch",
		"postgres://u:p@localhost:5432/hostwatch?sslmode=disable",
	} {
		out, err := withMigrationsTable(in)
		require.NoError(t, err)
		u, err := url.Parse(out)
		require.NoError(t, err)
		assert.Equal(t, migrationsTable, u.Query().Get("x-migrations-table"))
	}

	u, _ := withMigrationsTable("postgres://localhost/db?sslmode=disable")
	assert.Contains(t, u, "sslmode=disable")
}

func TestWaitForServer(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	require.NoError(t, waitForServer(ts.URL, 5, time.Millisecond))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	assert.Error(t, waitForServer(ts.URL+"/nope", 0, time.Millisecond))
}

// badgerEnv points the CLI at an on-disk badger store.
func badgerEnv(t *testing.T) {
	t.Helper()
	audit.DefaultLogger.SetWriter(io.Discard)

	dir := t.TempDir()
	key, err := sealer.GenerateKey()
	require.NoError(t, err)

	t.Setenv("HOSTWATCH_CONFIG_PATH", dir)
	t.Setenv("HOSTWATCH_STORAGE_BACKEND", "badger")
	t.Setenv("HOSTWATCH_BADGER_PATH", filepath.Join(dir, "data"))
	t.Setenv("HOSTWATCH_DATA_KEY", key)
}

func TestUserCommands(t *testing.T) {
	badgerEnv(t)
	ctx := context.Background()

	token, err := createUser(ctx, "ops@example.com", "hunter22")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	_, err = createUser(ctx, "OPS@example.com", "hunter22")
	assert.Error(t, err)

	rotated, err := rotateUserToken(ctx, "ops@example.com")
	require.NoError(t, err)
	assert.Len(t, rotated, 64)
	assert.NotEqual(t, token, rotated)

	_, err = rotateUserToken(ctx, "nobody@example.com")
	assert.Error(t, err)
}

func TestLoadCipher(t *testing.T) {
	t.Setenv("HOSTWATCH_DATA_KEY", "not base64!")
	_, err := loadCipher()
	assert.Error(t, err)

	key, err := sealer.GenerateKey()
	require.NoError(t, err)
	t.Setenv("HOSTWATCH_DATA_KEY", key)
	_, err = loadCipher()
	assert.NoError(t, err)
}

func TestOpenStores_Badger(t *testing.T) {
	badgerEnv(t)
	cfg, err := loadConfig()
	require.NoError(t, err)
	cipher, err := loadCipher()
	require.NoError(t, err)

	st, err := openStores(cfg, cipher, nil)
	require.NoError(t, err)
	assert.NoError(t, st.Health.CheckConnectivity())
	require.NoError(t, st.Close())
}
