package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	// KeySize is the data key length in bytes (AES-256).
	KeySize = 32

	nonceSize = 12
	tagSize   = aes.BlockSize
	magic     = byte('G')
)

var (
	ErrShortPacket = errors.New("sealed value is too short")
	ErrBadVersion  = errors.New("sealed value has an unknown version")
)

// Sealer encrypts values bound to an additional-data label, so a value
// sealed for one record cannot be opened as another.
type Sealer interface {
	Seal(aad, plainText []byte) ([]byte, error)
	Open(aad, packed []byte) ([]byte, error)
}

// AESGCM is a Sealer backed by AES-GCM. Packed values are laid out as
// magic || tag || nonce || ciphertext.
type AESGCM struct {
	aead cipher.AEAD
}

// New returns an AES-GCM sealer for key, which must be 16, 24 or 32 bytes.
func New(key []byte) (*AESGCM, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCM{aead: aead}, nil
}

// NewFromBase64 decodes a standard base64 data key and returns a sealer for it.
func NewFromBase64(encoded string) (*AESGCM, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode data key: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("data key must be %d bytes, got %d", KeySize, len(key))
	}
	return New(key)
}

func (s *AESGCM) Seal(aad, plainText []byte) ([]byte, error) {
	nonce, err := RandomBytes(nonceSize)
	if err != nil {
		return nil, err
	}
	return s.sealWithNonce(aad, plainText, nonce), nil
}

func (s *AESGCM) sealWithNonce(aad, plainText, nonce []byte) []byte {
	sealed := s.aead.Seal(nil, nonce, plainText, aad)
	body, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	packed := make([]byte, 0, 1+tagSize+nonceSize+len(body))
	packed = append(packed, magic)
	packed = append(packed, tag...)
	packed = append(packed, nonce...)
	packed = append(packed, body...)
	return packed
}

func (s *AESGCM) Open(aad, packed []byte) ([]byte, error) {
	if len(packed) < 1+tagSize+nonceSize {
		return nil, ErrShortPacket
	}
	if packed[0] != magic {
		return nil, ErrBadVersion
	}

	tag := packed[1 : 1+tagSize]
	nonce := packed[1+tagSize : 1+tagSize+nonceSize]
	body := packed[1+tagSize+nonceSize:]

	sealed := make([]byte, 0, len(body)+tagSize)
	sealed = append(sealed, body...)
	sealed = append(sealed, tag...)

	return s.aead.Open(nil, nonce, sealed, aad)
}

// RandomBytes reads size bytes from the system CSPRNG.
func RandomBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateKey returns a fresh base64-encoded data key.
func GenerateKey() (string, error) {
	key, err := RandomBytes(KeySize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.Strict().EncodeToString(key), nil
}
