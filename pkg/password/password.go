// Package password derives and checks stored password hashes. A stored
// hash is the standard base64 encoding of salt followed by the
// PBKDF2-HMAC-SHA256 derived key.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	keySize    = 32
	iterations = 10000
)

var ErrMalformedHash = errors.New("malformed password hash")

func Hash(plain string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	key := pbkdf2.Key([]byte(plain), salt, iterations, keySize, sha256.New)
	return base64.StdEncoding.EncodeToString(append(salt, key...)), nil
}

// Verify reports whether plain matches stored. A well-formed hash that does
// not match yields false and no error.
func Verify(plain, stored string) (bool, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if len(raw) != saltSize+keySize {
		return false, fmt.Errorf("%w: unexpected length %d", ErrMalformedHash, len(raw))
	}
	salt, expected := raw[:saltSize], raw[saltSize:]
	key := pbkdf2.Key([]byte(plain), salt, iterations, keySize, sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
