package domain

import (
	"github.com/allisson/phiguard/internal/errors"
)

// Cryptographic operation error definitions.
//
// Messages are deliberately generic: they never carry subject identifiers,
// plaintext or key material, so they are safe to surface in logs and UIs.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidSubject indicates an empty subject identifier was supplied.
	ErrInvalidSubject = errors.Wrap(errors.ErrInvalidInput, "invalid subject")

	// ErrInvalidData indicates a malformed envelope, e.g. one too short to hold
	// a nonce and a tag. It is never retried.
	ErrInvalidData = errors.Wrap(errors.ErrInvalidInput, "invalid data")

	// ErrKeyUnavailable indicates the master key could not be read from or
	// written to the secure key-value store, or the stored value is corrupt.
	// Callers may retry.
	ErrKeyUnavailable = errors.Wrap(errors.ErrUnavailable, "key unavailable")

	// ErrEncryptionFailed indicates the underlying AEAD primitive failed to seal.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrAuthenticationFailed indicates the integrity tag did not verify: the
	// envelope was tampered with or the wrong subject key was used. It must not
	// be retried with the same inputs.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrUnauthorized, "decryption failed")
)
