// Package crypto seals credential secrets at rest with NaCl secretbox.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "sealed:v1:"
	nonceSize    = 24
	keySize      = 32
	keyInfo      = "pavemaster-integrations credential sealing"
)

var (
	ErrEmptySecret   = errors.New("crypto: sealing secret is empty")
	ErrMalformed     = errors.New("crypto: malformed sealed value")
	ErrDecryptFailed = errors.New("crypto: sealed value could not be opened")
)

// Sealer encrypts and authenticates short strings.
type Sealer struct {
	key [keySize]byte
}

// NewSealer derives the secretbox key from secret with HKDF-SHA256.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	s := &Sealer{}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("crypto: failed to derive key: %w", err)
	}
	return s, nil
}

// Seal encrypts plaintext. Empty strings stay empty so "no token" is still visible.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("crypto: failed to read nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(box), nil
}

// Open reverses Seal. Values without the sealed prefix were written before
// sealing was enabled and are returned unchanged.
func (s *Sealer) Open(value string) (string, error) {
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, nil
	}
	box, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil || len(box) < nonceSize+secretbox.Overhead {
		return "", ErrMalformed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrDecryptFailed
	}
	return string(plain), nil
}

// IsSealed reports whether value was produced by Seal.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, sealedPrefix)
}
