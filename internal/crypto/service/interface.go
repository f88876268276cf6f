// Package service provides the cryptographic primitives of the security core:
// AEAD ciphers that seal envelopes and the HKDF deriver for per-subject keys.
package service

import (
	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// AEAD seals and opens envelopes under a single 256-bit key.
// Implementations are safe for concurrent use.
type AEAD interface {
	// Seal encrypts plaintext under a fresh random nonce.
	Seal(plaintext []byte) (cryptoDomain.Envelope, error)

	// Open verifies and decrypts an envelope. A tag mismatch returns
	// ErrAuthenticationFailed, a malformed envelope ErrInvalidData.
	Open(envelope cryptoDomain.Envelope) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver derives per-subject keys from the master key.
type KeyDeriver interface {
	// DeriveKey returns a KeySize key for subjectID. It is a pure function of
	// its inputs.
	DeriveKey(masterKey *cryptoDomain.MasterKey, subjectID string) ([]byte, error)
}
