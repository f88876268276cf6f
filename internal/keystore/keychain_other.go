//go:build !darwin || !cgo

package keystore

import (
	"context"

	"github.com/allisson/phiguard/internal/errors"
)

// ErrKeychainUnsupported is returned when the keychain backend is requested on a
// platform without one.
var ErrKeychainUnsupported = errors.Wrap(errors.ErrUnavailable, "keychain is only available on darwin with cgo")

// KeychainStore is unavailable on this platform.
type KeychainStore struct{}

// NewKeychainStore always fails with ErrKeychainUnsupported.
func NewKeychainStore(namespace string) (*KeychainStore, error) {
	return nil, ErrKeychainUnsupported
}

func (k *KeychainStore) Save(ctx context.Context, key string, data []byte) error {
	return ErrKeychainUnsupported
}

func (k *KeychainStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrKeychainUnsupported
}

func (k *KeychainStore) Delete(ctx context.Context, key string) error {
	return ErrKeychainUnsupported
}
