package badger

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/doodlesbykumbi/hostwatch/pkg/model"
	"github.com/doodlesbykumbi/hostwatch/pkg/server/store"
)

type userDoc struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	InstallToken string    `json:"install_token"`
	CreatedAt    time.Time `json:"created_at"`
}

func userKey(id string) []byte         { return []byte("user:" + id) }
func userEmailKey(email string) []byte { return []byte("user-email:" + email) }
func userTokenKey(token string) []byte { return []byte("user-token:" + model.HashToken(token)) }

func (s *Store) CreateUser(ctx context.Context, email string, passwordHash []byte, installToken string) (*store.User, error) {
	doc := userDoc{
		ID:           uuid.NewString(),
		Email:        model.NormalizeEmail(email),
		PasswordHash: passwordHash,
		InstallToken: installToken,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.update(func(txn *badger.Txn) error {
		for _, key := range [][]byte{userEmailKey(doc.Email), userTokenKey(doc.InstallToken)} {
			taken, err := exists(txn, key)
			if err != nil {
				return err
			}
			if taken {
				return store.ErrUserExists
			}
		}
		if err := setJSON(txn, userKey(doc.ID), doc); err != nil {
			return err
		}
		if err := txn.Set(userEmailKey(doc.Email), []byte(doc.ID)); err != nil {
			return err
		}
		return txn.Set(userTokenKey(doc.InstallToken), []byte(doc.ID))
	})
	if err != nil {
		return nil, err
	}
	return doc.toStore(), nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.findUserByIndex(userEmailKey(model.NormalizeEmail(email)))
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*store.User, error) {
	var doc userDoc
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &doc)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toStore(), nil
}

func (s *Store) FindUserByInstallToken(ctx context.Context, token string) (*store.User, error) {
	if token == "" {
		return nil, store.ErrUserNotFound
	}
	u, err := s.findUserByIndex(userTokenKey(token))
	if err != nil {
		return nil, err
	}
	// The index is keyed by digest; a stale entry must never resolve.
	if subtle.ConstantTimeCompare([]byte(u.InstallToken), []byte(token)) != 1 {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

// ReplaceInstallToken moves the token index and rewrites the user in one
// transaction, so the old token stops resolving at commit.
func (s *Store) ReplaceInstallToken(ctx context.Context, userID, token string) error {
	return s.update(func(txn *badger.Txn) error {
		var doc userDoc
		if err := getJSON(txn, userKey(userID), &doc); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return store.ErrUserNotFound
			}
			return err
		}

		taken, err := exists(txn, userTokenKey(token))
		if err != nil {
			return err
		}
		if taken {
			return store.ErrUserExists
		}

		if doc.InstallToken != "" {
			if err := txn.Delete(userTokenKey(doc.InstallToken)); err != nil {
				return err
			}
		}
		doc.InstallToken = token
		if err := setJSON(txn, userKey(doc.ID), doc); err != nil {
			return err
		}
		return txn.Set(userTokenKey(token), []byte(doc.ID))
	})
}

func (s *Store) findUserByIndex(indexKey []byte) (*store.User, error) {
	var doc userDoc
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, indexKey)
		if err != nil {
			return err
		}
		return getJSON(txn, userKey(id), &doc)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toStore(), nil
}

func (d userDoc) toStore() *store.User {
	return &store.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		InstallToken: d.InstallToken,
		CreatedAt:    d.CreatedAt,
	}
}
