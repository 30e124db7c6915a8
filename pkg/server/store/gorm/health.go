package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
)

var _ store.HealthStore = (*HealthStore)(nil)

const healthCheckTimeout = 2 * time.Second

// HealthStore checks PostgreSQL reachability
type HealthStore struct {
	db *gorm.DB
}

func NewHealthStore(db *gorm.DB) *HealthStore {
	return &HealthStore{db: db}
}

// CheckConnectivity runs a trivial query bounded by healthCheckTimeout.
func (s *HealthStore) CheckConnectivity() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}
