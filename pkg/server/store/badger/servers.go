package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
)

type serverDoc struct {
	ID           string    `json:"id"`
	SecretKey    []byte    `json:"secret_key"`
	Hostname     string    `json:"hostname"`
	Username     string    `json:"username"`
	IP           string    `json:"ip"`
	OwnerID      string    `json:"owner_id"`
	LastSnapshot []byte    `json:"last_snapshot,omitempty"`
	LastSeen     time.Time `json:"last_seen"`
}

func serverKey(id string) []byte { return []byte("server:" + id) }

func ownerPrefix(ownerID string) []byte { return []byte("owner:" + ownerID + ":") }

func ownerKey(ownerID, serverID string) []byte {
	return append(ownerPrefix(ownerID), serverID...)
}

// UpsertServer writes the record and moves the owner index in a single
// transaction. An existing snapshot is carried over.
func (s *Store) UpsertServer(ctx context.Context, rec store.ServerRecord) error {
	sealed, err := s.cipher.Seal([]byte(rec.ID), rec.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to seal secret key: %w", err)
	}

	return s.update(func(txn *badger.Txn) error {
		doc := serverDoc{
			ID:       rec.ID,
			Hostname: rec.Hostname,
			Username: rec.Username,
			IP:       rec.IP,
			OwnerID:  rec.OwnerID,
			LastSeen: rec.LastSeen.UTC(),
		}

		var prev serverDoc
		err := getJSON(txn, serverKey(rec.ID), &prev)
		switch {
		case err == nil:
			doc.LastSnapshot = prev.LastSnapshot
			if prev.OwnerID != rec.OwnerID {
				if err := txn.Delete(ownerKey(prev.OwnerID, rec.ID)); err != nil {
					return err
				}
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		doc.SecretKey = sealed
		if err := setJSON(txn, serverKey(doc.ID), doc); err != nil {
			return err
		}
		return txn.Set(ownerKey(doc.OwnerID, doc.ID), nil)
	})
}

func (s *Store) GetServer(ctx context.Context, id string) (*store.ServerRecord, error) {
	var doc serverDoc
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, serverKey(id), &doc)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrServerNotFound
	}
	if err != nil {
		return nil, err
	}

	secret, err := s.cipher.Open([]byte(doc.ID), doc.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open secret key for %s: %w", doc.ID, err)
	}

	rec := doc.toStore()
	rec.SecretKey = secret
	return &rec, nil
}

func (s *Store) RecordSnapshot(ctx context.Context, id string, snapshot []byte, seenAt time.Time) error {
	return s.update(func(txn *badger.Txn) error {
		var doc serverDoc
		if err := getJSON(txn, serverKey(id), &doc); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return store.ErrServerNotFound
			}
			return err
		}
		doc.LastSnapshot = append([]byte(nil), snapshot...)
		doc.LastSeen = seenAt.UTC()
		return setJSON(txn, serverKey(id), doc)
	})
}

func (s *Store) ListServersByOwner(ctx context.Context, ownerID string) ([]store.ServerRecord, error) {
	records := []store.ServerRecord{}
	prefix := ownerPrefix(ownerID)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			serverID := string(it.Item().Key()[len(prefix):])

			var doc serverDoc
			if err := getJSON(txn, serverKey(serverID), &doc); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			if doc.OwnerID != ownerID {
				continue
			}
			records = append(records, doc.toStore())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (d serverDoc) toStore() store.ServerRecord {
	return store.ServerRecord{
		ID:           d.ID,
		Hostname:     d.Hostname,
		Username:     d.Username,
		IP:           d.IP,
		OwnerID:      d.OwnerID,
		LastSnapshot: d.LastSnapshot,
		LastSeen:     d.LastSeen,
	}
}
