package model

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const (
	// SecretKeyLength gives 43 * log2(62) ~ 256 bits of entropy.
	SecretKeyLength = 43

	secretAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Server is an enrolled host. SecretKey holds the sealed shared secret.
type Server struct {
	ID           string     `gorm:"column:id;primaryKey"`
	SecretKey    []byte     `gorm:"column:secret_key"`
	Hostname     string     `gorm:"column:hostname"`
	Username     string     `gorm:"column:username"`
	IP           string     `gorm:"column:ip"`
	OwnerID      string     `gorm:"column:owner_id"`
	LastSnapshot []byte     `gorm:"column:last_snapshot"`
	LastSeen     time.Time  `gorm:"column:last_seen"`
	CreatedAt    *time.Time `gorm:"column:created_at"`
}

func (Server) TableName() string {
	return "servers"
}

// ServerID derives the server identity from the host triple. The same
// triple always maps to the same id.
func ServerID(hostname, username, ip string) string {
	return strings.Join([]string{"server", hostname, username, ip}, "_")
}

// GenerateSecretKey returns SecretKeyLength characters drawn uniformly
// from [a-zA-Z0-9] using crypto/rand.
func GenerateSecretKey() (string, error) {
	max := big.NewInt(int64(len(secretAlphabet)))
	b := make([]byte, SecretKeyLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = secretAlphabet[n.Int64()]
	}
	return string(b), nil
}
