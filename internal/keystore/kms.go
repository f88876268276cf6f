package keystore

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	"github.com/allisson/phiguard/internal/errors"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Keeper seals and unseals values. *secrets.Keeper implements it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// OpenKeeper opens a keeper for keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenKeeper(ctx context.Context, keyURI string) (Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// KeeperStore seals every value with a KMS keeper before handing it to the
// wrapped store, so the backing medium only ever holds ciphertext.
type KeeperStore struct {
	keeper Keeper
	next   Store
}

// NewKeeperStore wraps next with keeper.
func NewKeeperStore(keeper Keeper, next Store) *KeeperStore {
	return &KeeperStore{keeper: keeper, next: next}
}

// Save seals data and stores the ciphertext.
func (k *KeeperStore) Save(ctx context.Context, key string, data []byte) error {
	sealed, err := k.keeper.Encrypt(ctx, data)
	if err != nil {
		return errors.Wrapf(errors.ErrUnavailable, "failed to seal value: %v", err)
	}
	return k.next.Save(ctx, key, sealed)
}

// Retrieve loads and unseals the value of key.
func (k *KeeperStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	sealed, err := k.next.Retrieve(ctx, key)
	if err != nil {
		return nil, err
	}
	data, err := k.keeper.Decrypt(ctx, sealed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "failed to unseal value: %v", err)
	}
	return data, nil
}

// Delete removes key from the wrapped store.
func (k *KeeperStore) Delete(ctx context.Context, key string) error {
	return k.next.Delete(ctx, key)
}

// Close releases the keeper.
func (k *KeeperStore) Close() error {
	return k.keeper.Close()
}
