// Package service provides PBKDF2-HMAC-SHA256 credential hashing.
package service

import (
	"context"

	credentialDomain "github.com/allisson/phiguard/internal/credential/domain"
)

// Hasher derives and verifies one-way credential hashes. Hashing is slow on
// purpose and cannot be interrupted once started.
type Hasher interface {
	// Hash derives a new hash of password under a fresh random salt.
	Hash(password string) (credentialDomain.CredentialHash, error)

	// HashContext runs Hash on its own goroutine and returns ctx.Err() if the
	// context ends first. The abandoned derivation runs to completion and is discarded.
	HashContext(ctx context.Context, password string) (credentialDomain.CredentialHash, error)

	// Verify re-derives password under stored's salt and iterations and
	// compares in constant time. Only structurally invalid stored data is an error.
	Verify(password string, stored credentialDomain.CredentialHash) (bool, error)

	// NeedsRehash reports whether stored was produced with fewer iterations
	// than the hasher is configured for.
	NeedsRehash(stored credentialDomain.CredentialHash) bool
}
