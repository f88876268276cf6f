// Package domain defines the core cryptographic domain models of the security core.
//
// A single 256-bit master key, kept in the device's secure key-value store, is the
// root of a two-level hierarchy: per-subject keys are derived from it with HKDF and
// used to seal PHI into envelopes. Derived keys are never stored, only cached.
package domain

import "fmt"

// MasterKey is the root secret. It is owned by the crypto engine and never
// handed to callers.
type MasterKey struct {
	ID  string // storage key it was loaded from, e.g. MasterKeyStorageKey
	Key []byte
}

// NewMasterKey validates raw key material read from storage. The returned key
// owns a copy of raw.
func NewMasterKey(id string, raw []byte) (*MasterKey, error) {
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: master key %s must be %d bytes, got %d", ErrInvalidKeySize, id, KeySize, len(raw))
	}
	key := make([]byte, KeySize)
	copy(key, raw)
	return &MasterKey{ID: id, Key: key}, nil
}

// Clone returns a deep copy so callers can zero it independently.
func (m *MasterKey) Clone() *MasterKey {
	key := make([]byte, len(m.Key))
	copy(key, m.Key)
	return &MasterKey{ID: m.ID, Key: key}
}

// Close zeroes the key material.
func (m *MasterKey) Close() {
	Zero(m.Key)
}
