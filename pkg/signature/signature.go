// Package signature implements the request signing scheme agents use on
// every metrics push: a hex encoded HMAC-SHA256 of the exact body bytes,
// keyed by the server's shared secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// ServerIDHeader carries the enrolled server id.
	ServerIDHeader = "X-Server-ID"
	// Header carries the hex HMAC of the body.
	Header = "X-Signature"
)

// Sign returns the lowercase hex HMAC-SHA256 of body under secret.
func Sign(secret, body []byte) string {
	return hex.EncodeToString(sum(secret, body))
}

// Verify reports whether sig is a valid signature of body under secret.
// Hex case is ignored. The MAC comparison runs in constant time.
func Verify(secret, body []byte, sig string) bool {
	given, err := hex.DecodeString(strings.TrimSpace(sig))
	if err != nil || len(given) != sha256.Size {
		return false
	}
	return hmac.Equal(given, sum(secret, body))
}

func sum(secret, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return mac.Sum(nil)
}
