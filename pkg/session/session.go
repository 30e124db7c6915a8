// Package session issues and verifies owner session tokens (HS256 JWTs).
package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doodlesbykumbi/hostwatch/pkg/sealer"
)

const (
	MinKeySize = 32
	DefaultTTL = 24 * time.Hour
	Issuer     = "hostwatch"
)

var ErrInvalidSession = errors.New("invalid session")

// Claims carries the owner's id in sub plus their email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Manager signs and parses session tokens with one HMAC key.
type Manager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewManager returns a Manager. A zero ttl selects DefaultTTL.
func NewManager(key []byte, ttl time.Duration) (*Manager, error) {
	if len(key) < MinKeySize {
		return nil, fmt.Errorf("session key must be at least %d bytes, got %d", MinKeySize, len(key))
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{key: key, ttl: ttl, now: time.Now}, nil
}

// NewManagerFromBase64 decodes a key produced by GenerateKey.
func NewManagerFromBase64(encoded string, ttl time.Duration) (*Manager, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("session key is not valid base64: %w", err)
	}
	return NewManager(key, ttl)
}

// GenerateKey returns a fresh base64 session key.
func GenerateKey() (string, error) {
	key, err := sealer.RandomBytes(MinKeySize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Issue signs a session for userID valid for the manager's TTL.
func (m *Manager) Issue(userID, email string) (string, time.Time, error) {
	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	})

	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, algorithm, issuer and expiry. Every failure
// is reported as ErrInvalidSession wrapping the cause.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
