// Package sealer encrypts per-server shared secrets at rest.
//
// Secrets are sealed with the operator data key (HOSTWATCH_DATA_KEY) using
// AES-256-GCM, with the server id as additional authenticated data:
//
//	s, err := sealer.NewFromBase64(os.Getenv("HOSTWATCH_DATA_KEY"))
//	packed, err := s.Seal([]byte(serverID), secret)
//	secret, err = s.Open([]byte(serverID), packed)
//
// A value opened with a different id fails authentication.
package sealer
