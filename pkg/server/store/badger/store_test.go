package badger

import (
	"context"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/hostwatch/pkg/sealer"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	key := make([]byte, sealer.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	cipher, err := sealer.New(key)
	require.NoError(t, err)

	s, err := Open(Options{InMemory: true}, cipher)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Options{}, nil)
	assert.Error(t, err)
}

func TestOpen_OnDisk(t *testing.T) {
	cipher, err := sealer.New(make([]byte, sealer.KeySize))
	require.NoError(t, err)

	dir := t.TempDir()
	s, err := Open(Options{Path: dir}, cipher)
	require.NoError(t, err)

	ctx := context.Background()
	u, err := s.CreateUser(ctx, "a@example.com", []byte("h"), "tok")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(Options{Path: dir}, cipher)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.FindUserByInstallToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestStore_CheckConnectivity(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.CheckConnectivity())

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.CheckConnectivity(), ErrClosed)
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.CreateUser(ctx, " Owner@Example.com ", []byte("hash"), "TOK123")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "owner@example.com", u.Email)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.CreateUser(ctx, "owner@example.com", []byte("x"), "OTHER")
		assert.ErrorIs(t, err, store.ErrUserExists)
	})

	t.Run("duplicate token", func(t *testing.T) {
		_, err := s.CreateUser(ctx, "second@example.com", []byte("x"), "TOK123")
		assert.ErrorIs(t, err, store.ErrUserExists)
	})

	t.Run("lookups", func(t *testing.T) {
		byEmail, err := s.FindUserByEmail(ctx, "OWNER@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
		assert.Equal(t, []byte("hash"), byEmail.PasswordHash)

		byID, err := s.FindUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "TOK123", byID.InstallToken)

		byToken, err := s.FindUserByInstallToken(ctx, "TOK123")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byToken.ID)
	})

	t.Run("misses", func(t *testing.T) {
		_, err := s.FindUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = s.FindUserByID(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = s.FindUserByInstallToken(ctx, "")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = s.FindUserByInstallToken(ctx, "WRONG")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestStore_ReplaceInstallToken(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.CreateUser(ctx, "owner@example.com", []byte("hash"), "OLD")
	require.NoError(t, err)

	require.NoError(t, s.ReplaceInstallToken(ctx, u.ID, "NEW"))

	_, err = s.FindUserByInstallToken(ctx, "OLD")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	got, err := s.FindUserByInstallToken(ctx, "NEW")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	assert.ErrorIs(t, s.ReplaceInstallToken(ctx, "missing", "X"), store.ErrUserNotFound)
}

func TestStore_StaleTokenIndexNeverResolves(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.CreateUser(ctx, "owner@example.com", []byte("hash"), "CURRENT")
	require.NoError(t, err)

	// An index entry left behind for a token the user no longer holds.
	require.NoError(t, s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userTokenKey("STALE"), []byte(u.ID))
	}))

	_, err = s.FindUserByInstallToken(ctx, "STALE")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	got, err := s.FindUserByInstallToken(ctx, "CURRENT")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestStore_ServersUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := store.ServerRecord{
		ID:        "server_web1_root_10.0.0.5",
		SecretKey: []byte("S1"),
		Hostname:  "web1",
		Username:  "root",
		IP:        "10.0.0.5",
		OwnerID:   "u-1",
		LastSeen:  seen,
	}
	require.NoError(t, s.UpsertServer(ctx, rec))

	got, err := s.GetServer(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("S1"), got.SecretKey)
	assert.Equal(t, "u-1", got.OwnerID)
	assert.True(t, seen.Equal(got.LastSeen))

	_, err = s.GetServer(ctx, "server_x_y_z")
	assert.ErrorIs(t, err, store.ErrServerNotFound)
}

func TestStore_ReEnrollmentCollapsesOntoOneRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := store.ServerRecord{ID: "server_web1_root_10.0.0.5", SecretKey: []byte("S1"), Hostname: "web1", Username: "root", IP: "10.0.0.5", OwnerID: "u-1", LastSeen: time.Now()}
	require.NoError(t, s.UpsertServer(ctx, rec))
	require.NoError(t, s.RecordSnapshot(ctx, rec.ID, []byte(`{"cpu":1}`), time.Now()))

	rec.SecretKey = []byte("S2")
	rec.OwnerID = "u-2"
	require.NoError(t, s.UpsertServer(ctx, rec))

	got, err := s.GetServer(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("S2"), got.SecretKey)
	assert.Equal(t, "u-2", got.OwnerID)
	assert.JSONEq(t, `{"cpu":1}`, string(got.LastSnapshot))

	previous, err := s.ListServersByOwner(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, previous)

	current, err := s.ListServersByOwner(ctx, "u-2")
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, rec.ID, current[0].ID)
}

func TestStore_SecretIsSealedOnDisk(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.UpsertServer(ctx, store.ServerRecord{ID: "server_a_b_c", SecretKey: []byte("plaintext-secret"), OwnerID: "u"}))

	var doc serverDoc
	require.NoError(t, s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, serverKey("server_a_b_c"), &doc)
	}))
	assert.NotContains(t, string(doc.SecretKey), "plaintext-secret")
}

func TestStore_RecordSnapshotTouchesOnlyTarget(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"server_a_r_1", "server_b_r_2"} {
		require.NoError(t, s.UpsertServer(ctx, store.ServerRecord{ID: id, SecretKey: []byte("s"), OwnerID: "u-1", LastSeen: before}))
	}

	after := before.Add(time.Hour)
	require.NoError(t, s.RecordSnapshot(ctx, "server_a_r_1", []byte(`{"n":1}`), after))

	a, err := s.GetServer(ctx, "server_a_r_1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(a.LastSnapshot))
	assert.True(t, after.Equal(a.LastSeen))

	b, err := s.GetServer(ctx, "server_b_r_2")
	require.NoError(t, err)
	assert.Nil(t, b.LastSnapshot)
	assert.True(t, before.Equal(b.LastSeen))

	assert.ErrorIs(t, s.RecordSnapshot(ctx, "server_missing", []byte(`{}`), after), store.ErrServerNotFound)
}

func TestStore_ListServersByOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, rec := range []store.ServerRecord{
		{ID: "server_a_r_1", SecretKey: []byte("s"), Hostname: "a", OwnerID: "u-1"},
		{ID: "server_b_r_2", SecretKey: []byte("s"), Hostname: "b", OwnerID: "u-1"},
		{ID: "server_c_r_3", SecretKey: []byte("s"), Hostname: "c", OwnerID: "u-10"},
	} {
		require.NoError(t, s.UpsertServer(ctx, rec))
	}

	got, err := s.ListServersByOwner(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rec := range got {
		assert.Equal(t, "u-1", rec.OwnerID)
		assert.Nil(t, rec.SecretKey)
	}

	none, err := s.ListServersByOwner(ctx, "u-404")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
