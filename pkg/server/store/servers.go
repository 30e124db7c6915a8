package store

import (
	"context"
	"errors"
	"time"
)

var ErrServerNotFound = errors.New("server not found")

// ServerRecord is a server as seen by the fleet service. SecretKey is the
// plaintext shared secret; stores seal it before it reaches disk.
type ServerRecord struct {
	ID           string
	SecretKey    []byte
	Hostname     string
	Username     string
	IP           string
	OwnerID      string
	LastSnapshot []byte
	LastSeen     time.Time
}

// ServersStore abstracts enrolled server storage
type ServersStore interface {
	// UpsertServer inserts rec or replaces the secret, owner, host triple and
	// last-seen time of the existing record with the same ID, as one atomic
	// write. The stored snapshot is left as is.
	UpsertServer(ctx context.Context, rec ServerRecord) error

	// GetServer returns the record with its secret opened, or ErrServerNotFound.
	GetServer(ctx context.Context, id string) (*ServerRecord, error)

	// RecordSnapshot overwrites the last snapshot and last-seen time of one
	// server. Returns ErrServerNotFound if no such server exists.
	RecordSnapshot(ctx context.Context, id string, snapshot []byte, seenAt time.Time) error

	// ListServersByOwner returns every server owned by ownerID. Secrets are
	// not populated.
	ListServersByOwner(ctx context.Context, ownerID string) ([]ServerRecord, error)
}

// Closer is implemented by stores holding process-lifetime resources.
type Closer interface {
	Close() error
}
