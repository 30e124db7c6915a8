package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/hostwatch/pkg/model"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// CreateUser inserts a new account with a generated id.
func (s *UsersStore) CreateUser(ctx context.Context, email string, passwordHash []byte, installToken string) (*store.User, error) {
	u := model.User{
		ID:           uuid.NewString(),
		Email:        model.NormalizeEmail(email),
		PasswordHash: passwordHash,
		InstallToken: installToken,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO users (id, email, password_hash, install_token, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.InstallToken, u.CreatedAt,
	).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toStoreUser(u), nil
}

func (s *UsersStore) FindUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.findOne(ctx, "email = ?", model.NormalizeEmail(email))
}

func (s *UsersStore) FindUserByID(ctx context.Context, id string) (*store.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *UsersStore) FindUserByInstallToken(ctx context.Context, token string) (*store.User, error) {
	if token == "" {
		return nil, store.ErrUserNotFound
	}
	return s.findOne(ctx, "install_token = ?", token)
}

// ReplaceInstallToken swaps the token with a single UPDATE statement.
func (s *UsersStore) ReplaceInstallToken(ctx context.Context, userID, token string) error {
	tx := s.db.WithContext(ctx).Exec(`UPDATE users SET install_token = ? WHERE id = ?`, token, userID)
	if tx.Error != nil {
		return fmt.Errorf("failed to replace install token: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

func (s *UsersStore) findOne(ctx context.Context, query string, arg interface{}) (*store.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return toStoreUser(u), nil
}

func toStoreUser(u model.User) *store.User {
	return &store.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		InstallToken: u.InstallToken,
		CreatedAt:    u.CreatedAt,
	}
}
