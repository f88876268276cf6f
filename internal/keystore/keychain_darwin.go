//go:build darwin && cgo

package keystore

import (
	"context"
	stderrors "errors"

	keychain "github.com/keybase/go-keychain"

	"github.com/allisson/phiguard/internal/errors"
)

const keychainPrefix = "com.phiguard.keystore."

// KeychainStore stores values as generic passwords in the macOS Keychain under
// the service com.phiguard.keystore.$namespace, with the key as account name.
// Items are readable after the first unlock, never leave the device and are
// never synchronized.
type KeychainStore struct {
	service string

	updateItem func(query, update keychain.Item) error
	addItem    func(item keychain.Item) error
}

// NewKeychainStore returns a KeychainStore for namespace.
func NewKeychainStore(namespace string) (*KeychainStore, error) {
	if namespace == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "keychain namespace is required")
	}
	return &KeychainStore{
		service:    keychainPrefix + namespace,
		updateItem: keychain.UpdateItem,
		addItem:    keychain.AddItem,
	}, nil
}

// Save updates the keychain item for key in place and adds it when absent.
// The previous value stays readable until the new one is written.
func (k *KeychainStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	query := keychain.NewItem()
	query.SetSecClass(keychain.SecClassGenericPassword)
	query.SetService(k.service)
	query.SetAccount(key)

	update := keychain.NewItem()
	update.SetData(data)

	err := k.updateItem(query, update)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, keychain.ErrorItemNotFound) {
		return errors.Wrapf(errors.ErrUnavailable, "failed to update keychain item: %v", err)
	}

	item := keychain.NewGenericPassword(k.service, key, "", data, "")
	item.SetSynchronizable(keychain.SynchronizableNo)
	item.SetAccessible(keychain.AccessibleAfterFirstUnlockThisDeviceOnly)

	if err := k.addItem(item); err != nil {
		return errors.Wrapf(errors.ErrUnavailable, "failed to add keychain item: %v", err)
	}
	return nil
}

// Retrieve reads the keychain item for key.
func (k *KeychainStore) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	data, err := keychain.GetGenericPassword(k.service, key, "", "")
	if stderrors.Is(err, keychain.ErrorItemNotFound) {
		return nil, ErrKeyNotFound
	} else if err != nil {
		return nil, errors.Wrapf(errors.ErrUnavailable, "failed to read keychain item: %v", err)
	}
	if data == nil {
		return nil, ErrKeyNotFound
	}
	return data, nil
}

// Delete removes the keychain item for key.
func (k *KeychainStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	err := keychain.DeleteGenericPasswordItem(k.service, key)
	if err != nil && !stderrors.Is(err, keychain.ErrorItemNotFound) {
		return errors.Wrapf(errors.ErrUnavailable, "failed to delete keychain item: %v", err)
	}
	return nil
}
