package session

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return []byte(strings.Repeat("k", MinKeySize))
}

func TestNewManager_ShortKey(t *testing.T) {
	_, err := NewManager([]byte("short"), time.Hour)
	assert.Error(t, err)
}

func TestManager_IssueAndParse(t *testing.T) {
	m, err := NewManager(testKey(), time.Hour)
	require.NoError(t, err)

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	token, expiresAt, err := m.Issue("u-1", "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), expiresAt)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestManager_ParseRejects(t *testing.T) {
	m, err := NewManager(testKey(), time.Minute)
	require.NoError(t, err)
	token, _, err := m.Issue("u-1", "owner@example.com")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := *m
		later.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("foreign key", func(t *testing.T) {
		other, err := NewManager([]byte(strings.Repeat("x", MinKeySize)), time.Minute)
		require.NoError(t, err)
		_, err = other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("alg none", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1", Issuer: Issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestGenerateKey(t *testing.T) {
	encoded, err := GenerateKey()
	require.NoError(t, err)

	m, err := NewManagerFromBase64(encoded, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, m.ttl)

	_, err = NewManagerFromBase64("%%%", 0)
	assert.Error(t, err)
}
