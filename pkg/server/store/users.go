package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// User is the store-layer view of an account.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	InstallToken string
	CreatedAt    time.Time
}

// UsersStore abstracts account storage
type UsersStore interface {
	// CreateUser inserts a new account. Returns ErrUserExists when the email
	// or install token is already taken.
	CreateUser(ctx context.Context, email string, passwordHash []byte, installToken string) (*User, error)

	FindUserByEmail(ctx context.Context, email string) (*User, error)

	FindUserByID(ctx context.Context, id string) (*User, error)

	// FindUserByInstallToken resolves the account whose active install token
	// equals token.
	FindUserByInstallToken(ctx context.Context, token string) (*User, error)

	// ReplaceInstallToken swaps the user's install token in a single atomic
	// write. The previous token stops resolving as soon as this returns.
	ReplaceInstallToken(ctx context.Context, userID, token string) error
}
