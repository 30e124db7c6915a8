package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/hostwatch/pkg/config"
	"github.com/doodlesbykumbi/hostwatch/pkg/db"
	"github.com/doodlesbykumbi/hostwatch/pkg/sealer"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
	badgerstore "github.com/doodlesbykumbi/hostwatch/pkg/server/store/badger"
	gormstore "github.com/doodlesbykumbi/hostwatch/pkg/server/store/gorm"
)

// stores bundles the backend selected by storage_backend.
type stores struct {
	Users   store.UsersStore
	Servers store.ServersStore
	Health  store.HealthStore
	io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func loadCipher() (*sealer.AESGCM, error) {
	dataKey, ok := os.LookupEnv("HOSTWATCH_DATA_KEY")
	if !ok {
		return nil, fmt.Errorf("HOSTWATCH_DATA_KEY environment variable is required")
	}
	cipher, err := sealer.NewFromBase64(dataKey)
	if err != nil {
		return nil, fmt.Errorf("bad HOSTWATCH_DATA_KEY: %w", err)
	}
	return cipher, nil
}

func openStores(cfg *config.HostwatchConfig, cipher sealer.Sealer, logger *zap.Logger) (*stores, error) {
	switch cfg.StorageBackend {
	case config.BackendBadger:
		st, err := badgerstore.Open(badgerstore.Options{Path: cfg.BadgerPath, Logger: logger}, cipher)
		if err != nil {
			return nil, err
		}
		return &stores{Users: st, Servers: st, Health: st, Closer: st}, nil
	default:
		database, err := db.Connect(db.Config{})
		if err != nil {
			return nil, err
		}
		return &stores{
			Users:   gormstore.NewUsersStore(database),
			Servers: gormstore.NewServersStore(database, cipher),
			Health:  gormstore.NewHealthStore(database),
			Closer:  closerFunc(func() error { return db.Close(database) }),
		}, nil
	}
}
