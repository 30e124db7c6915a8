package agent

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/hostwatch/pkg/audit"
	"github.com/doodlesbykumbi/hostwatch/pkg/config"
	"github.com/doodlesbykumbi/hostwatch/pkg/fleet"
	"github.com/doodlesbykumbi/hostwatch/pkg/sealer"
	"github.com/doodlesbykumbi/hostwatch/pkg/server"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/endpoints"
	badgerstore "github.com/doodlesbykumbi/hostwatch/pkg/server/store/badger"
	"github.com/doodlesbykumbi/hostwatch/pkg/session"
)

func TestAgentAgainstServer(t *testing.T) {
	audit.DefaultLogger.SetWriter(io.Discard)
	t.Setenv("HOSTWATCH_CONFIG_PATH", t.TempDir())
	ctx := context.Background()

	cipher, err := sealer.New(make([]byte, sealer.KeySize))
	require.NoError(t, err)
	st, err := badgerstore.Open(badgerstore.Options{InMemory: true}, cipher)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	svc := fleet.NewService(st, st, fleet.WithBcryptCost(bcrypt.MinCost))
	owner, err := svc.CreateOwner(ctx, "ops@example.com", "hunter22")
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	sessions, err := session.NewManager([]byte(strings.Repeat("k", session.MinKeySize)), time.Hour)
	require.NoError(t, err)
	srv, err := server.NewServer(svc, sessions, st, cfg, nil, "127.0.0.1", "0")
	require.NoError(t, err)
	endpoints.RegisterAll(srv)

	ts := httptest.NewServer(srv.Router)
	defer ts.Close()

	client := NewClient(ts.URL, nil)
	path := filepath.Join(t.TempDir(), "agent_config.json")
	creds, err := EnsureCredentials(ctx, client, path, owner.InstallToken, "10.0.0.5", zap.NewNop())
	require.NoError(t, err)

	a := &Agent{Client: client, Creds: creds, Collect: fixedSnapshot, Logger: zap.NewNop()}
	require.NoError(t, a.PushOnce(ctx))

	servers, err := svc.ListServers(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, creds.ServerID, servers[0].ServerID)
	assert.Contains(t, string(servers[0].LastMetrics), `"global_usage":12.5`)
}
