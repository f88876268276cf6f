// Package keystore provides the device-local secure key-value store that holds
// the master key and other opaque secrets.
//
// Values are opaque byte strings. Backends differ only in where the bytes live:
// process memory, a private directory on disk or the OS keychain. Any backend can
// additionally be wrapped with a KMS keeper so that values are sealed before they
// reach it.
package keystore

import (
	"context"
	"regexp"

	"github.com/allisson/phiguard/internal/errors"
)

var (
	// ErrKeyNotFound indicates that no value is stored under the requested key.
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "key not found")

	// ErrInvalidKey indicates a storage key that backends cannot represent safely.
	ErrInvalidKey = errors.Wrap(errors.ErrInvalidInput, "invalid storage key")
)

// Store is the secure key-value store contract.
type Store interface {
	// Save stores data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Retrieve returns the value stored under key or ErrKeyNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,254}$`)

// ValidateKey rejects keys that could escape a directory or collide after encoding.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return ErrInvalidKey
	}
	return nil
}
