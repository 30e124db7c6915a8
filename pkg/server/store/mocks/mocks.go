// Package mocks provides testify mocks of the store interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
)

var (
	_ store.UsersStore   = (*UsersStore)(nil)
	_ store.ServersStore = (*ServersStore)(nil)
	_ store.HealthStore  = (*HealthStore)(nil)
)

// UsersStore implements store.UsersStore for testing using testify/mock
type UsersStore struct {
	mock.Mock
}

func (m *UsersStore) CreateUser(ctx context.Context, email string, passwordHash []byte, installToken string) (*store.User, error) {
	args := m.Called(ctx, email, passwordHash, installToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *UsersStore) FindUserByEmail(ctx context.Context, email string) (*store.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *UsersStore) FindUserByID(ctx context.Context, id string) (*store.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *UsersStore) FindUserByInstallToken(ctx context.Context, token string) (*store.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *UsersStore) ReplaceInstallToken(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

// ServersStore implements store.ServersStore for testing using testify/mock
type ServersStore struct {
	mock.Mock
}

func (m *ServersStore) UpsertServer(ctx context.Context, rec store.ServerRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *ServersStore) GetServer(ctx context.Context, id string) (*store.ServerRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ServerRecord), args.Error(1)
}

func (m *ServersStore) RecordSnapshot(ctx context.Context, id string, snapshot []byte, seenAt time.Time) error {
	args := m.Called(ctx, id, snapshot, seenAt)
	return args.Error(0)
}

func (m *ServersStore) ListServersByOwner(ctx context.Context, ownerID string) ([]store.ServerRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.ServerRecord), args.Error(1)
}

// HealthStore implements store.HealthStore for testing using testify/mock
type HealthStore struct {
	mock.Mock
}

func (m *HealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
