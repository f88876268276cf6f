// Package usecase implements the crypto engine: master-key lifecycle, per-subject
// key derivation and caching, and envelope encryption of PHI.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// Engine is the crypto engine contract shared by the core implementation and its
// metrics decorator.
type Engine interface {
	// DeriveKey returns a copy of the subject's derived key. The caller owns the
	// slice and should zero it when done.
	DeriveKey(ctx context.Context, subjectID string) ([]byte, error)

	// Encrypt seals plaintext under the subject's key with a fresh random nonce.
	Encrypt(ctx context.Context, plaintext []byte, subjectID string) (cryptoDomain.Envelope, error)

	// Decrypt opens an envelope produced by Encrypt for the same subject.
	// Malformed envelopes fail with ErrInvalidData; tag failures fail with
	// ErrAuthenticationFailed and raise a security alert.
	Decrypt(ctx context.Context, envelope cryptoDomain.Envelope, subjectID string) ([]byte, error)

	// ClearCache drops every cached derived key and the cached master key.
	ClearCache()

	// ClearSubject drops the cached key of one subject.
	ClearSubject(subjectID string)
}

// AlertHook is called when an envelope fails authentication. It runs on the
// caller's goroutine and must not call Decrypt with the same context marker
// it is reacting to.
type AlertHook func(ctx context.Context, subjectID string)
