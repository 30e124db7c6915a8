package badger

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/sealer"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
)

var (
	_ store.UsersStore   = (*Store)(nil)
	_ store.ServersStore = (*Store)(nil)
	_ store.HealthStore  = (*Store)(nil)
	_ store.Closer       = (*Store)(nil)
)

const maxTxnAttempts = 10

var ErrClosed = errors.New("badger store is closed")

// Options configures the embedded store.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	Logger   *zap.Logger
}

// Store implements the users, servers and health stores on one Badger
// database handle, opened once per process.
type Store struct {
	db     *badger.DB
	cipher sealer.Sealer
}

// Open opens (or creates) the Badger database described by opts.
func Open(opts Options, cipher sealer.Sealer) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("badger path is required")
		}
		bopts = badger.DefaultOptions(filepath.Clean(opts.Path))
	}

	if opts.Logger != nil {
		bopts = bopts.WithLogger(newLogger(opts.Logger))
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", opts.Path, err)
	}
	return &Store{db: db, cipher: cipher}, nil
}

// Close flushes pending writes and releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CheckConnectivity reports whether the database is still open and readable.
func (s *Store) CheckConnectivity() error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

// update runs fn in a read-write transaction, retrying when badger detects
// a conflicting concurrent commit.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnAttempts; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func getJSON(txn *badger.Txn, key []byte, out interface{}) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(v []byte) error {
		return json.Unmarshal(v, out)
	})
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func getString(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if err != nil {
		return "", err
	}
	v, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}
