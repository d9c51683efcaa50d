// Package hashlock implements the hash-commitment primitive shared by both
// swap state machines: a 32-byte secret and its SHA-256 digest, both carried
// as lowercase hex strings.
package hashlock

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// SecretLen is the secret length in bytes.
const SecretLen = 32

// GenerateSecret returns a random secret and its hash lock, both hex-encoded.
func GenerateSecret() (secret string, lock string, err error) {
	raw := make([]byte, SecretLen)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generating secret: %w", err)
	}
	digest := sha256.Sum256(raw)
	return hex.EncodeToString(raw), hex.EncodeToString(digest[:]), nil
}

// Commit computes the hash lock for a hex-encoded secret.
func Commit(secret string) (string, error) {
	raw, err := hex.DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("decoding secret: %w", err)
	}
	digest := sha256.Sum256(raw)
	return hex.EncodeToString(digest[:]), nil
}

// Verify reports whether the hex-encoded secret opens the given hash lock.
// Comparison is constant-time; a malformed secret simply fails.
func Verify(secret, lock string) bool {
	computed, err := Commit(secret)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(lock)) == 1
}

// ValidLock reports whether lock is a well-formed, non-zero 32-byte hex digest.
func ValidLock(lock string) bool {
	raw, err := hex.DecodeString(lock)
	if err != nil || len(raw) != sha256.Size {
		return false
	}
	for _, b := range raw {
		if b != 0 {
			return true
		}
	}
	return false
}
