package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/hostwatch/pkg/model"
	"github.com/doodlesbykumbi/hostwatch/pkg/sealer"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
)

// Ensure ServersStore implements store.ServersStore
var _ store.ServersStore = (*ServersStore)(nil)

// ServersStore implements store.ServersStore using GORM. Secrets are sealed
// with the server id as additional data.
type ServersStore struct {
	db     *gorm.DB
	cipher sealer.Sealer
}

// NewServersStore creates a new ServersStore
func NewServersStore(db *gorm.DB, cipher sealer.Sealer) *ServersStore {
	return &ServersStore{db: db, cipher: cipher}
}

const upsertServerSQL = `INSERT INTO servers (id, secret_key, hostname, username, ip, owner_id, last_seen)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	secret_key = EXCLUDED.secret_key,
	hostname = EXCLUDED.hostname,
	username = EXCLUDED.username,
	ip = EXCLUDED.ip,
	owner_id = EXCLUDED.owner_id,
	last_seen = EXCLUDED.last_seen`

// UpsertServer runs a single INSERT ... ON CONFLICT so concurrent
// enrollments of the same host never interleave.
func (s *ServersStore) UpsertServer(ctx context.Context, rec store.ServerRecord) error {
	sealed, err := s.cipher.Seal([]byte(rec.ID), rec.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to seal secret key: %w", err)
	}

	err = s.db.WithContext(ctx).Exec(upsertServerSQL,
		rec.ID, sealed, rec.Hostname, rec.Username, rec.IP, rec.OwnerID, rec.LastSeen.UTC(),
	).Error
	if err != nil {
		return fmt.Errorf("failed to upsert server: %w", err)
	}
	return nil
}

func (s *ServersStore) GetServer(ctx context.Context, id string) (*store.ServerRecord, error) {
	var row model.Server
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrServerNotFound
		}
		return nil, err
	}

	secret, err := s.cipher.Open([]byte(row.ID), row.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open secret key for %s: %w", row.ID, err)
	}

	rec := toServerRecord(row)
	rec.SecretKey = secret
	return &rec, nil
}

func (s *ServersStore) RecordSnapshot(ctx context.Context, id string, snapshot []byte, seenAt time.Time) error {
	tx := s.db.WithContext(ctx).Exec(
		`UPDATE servers SET last_snapshot = ?, last_seen = ? WHERE id = ?`,
		snapshot, seenAt.UTC(), id,
	)
	if tx.Error != nil {
		return fmt.Errorf("failed to record snapshot: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrServerNotFound
	}
	return nil
}

func (s *ServersStore) ListServersByOwner(ctx context.Context, ownerID string) ([]store.ServerRecord, error) {
	var rows []model.Server
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("hostname, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]store.ServerRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toServerRecord(row))
	}
	return records, nil
}

func toServerRecord(row model.Server) store.ServerRecord {
	return store.ServerRecord{
		ID:           row.ID,
		Hostname:     row.Hostname,
		Username:     row.Username,
		IP:           row.IP,
		OwnerID:      row.OwnerID,
		LastSnapshot: row.LastSnapshot,
		LastSeen:     row.LastSeen,
	}
}
