// Package sealer encrypts OAuth state payloads at rest with AES-256-GCM.
package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driven"
)

// Ensure Sealer implements PayloadSealer
var _ driven.PayloadSealer = (*Sealer)(nil)

const (
	// blobVersion is the version byte of the sealed format.
	blobVersion = 0x01

	// nonceSize is the AES-GCM nonce size (12 bytes is standard)
	nonceSize = 12

	// KeySize is the required key size for AES-256
	KeySize = 32
)

var (
	// ErrInvalidKeySize is returned when the key is not 32 bytes.
	ErrInvalidKeySize = errors.New("sealing key must be 32 bytes")

	// ErrInvalidBlobSize is returned when the sealed blob is too small.
	ErrInvalidBlobSize = errors.New("sealed blob is too small")

	// ErrUnsupportedVersion is returned when the blob version is not supported.
	ErrUnsupportedVersion = errors.New("unsupported sealed blob version")

	// ErrOpenFailed is returned when decryption fails (wrong key or corrupted data).
	ErrOpenFailed = errors.New("failed to open sealed blob")
)

// Sealer handles AES-256-GCM sealing of state payloads.
// The sealed format is base64url(version(1) || nonce(12) || ciphertext(N)).
type Sealer struct {
	gcm cipher.AEAD
}

// New creates a Sealer with the given 32-byte key.
func New(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &Sealer{gcm: gcm}, nil
}

// NewFromBase64 creates a Sealer from a standard base64 encoded key.
func NewFromBase64(encoded string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode sealing key: %w", err)
	}
	return New(key)
}

// Seal encrypts plaintext into a URL-safe string.
func (s *Sealer) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := s.gcm.Seal(nil, nonce, plaintext, []byte{blobVersion})

	blob := make([]byte, 1+nonceSize+len(ciphertext))
	blob[0] = blobVersion
	copy(blob[1:1+nonceSize], nonce)
	copy(blob[1+nonceSize:], ciphertext)

	return base64.RawURLEncoding.EncodeToString(blob), nil
}

// Open decrypts a string produced by Seal.
func (s *Sealer) Open(sealed string) ([]byte, error) {
	blob, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	if len(blob) < 1+nonceSize+s.gcm.Overhead() {
		return nil, ErrInvalidBlobSize
	}
	if blob[0] != blobVersion {
		return nil, fmt.Errorf("%w: got version %d", ErrUnsupportedVersion, blob[0])
	}

	plaintext, err := s.gcm.Open(nil, blob[1:1+nonceSize], blob[1+nonceSize:], []byte{blobVersion})
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}
