package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"

	credentialDomain "github.com/allisson/phiguard/internal/credential/domain"
	apperrors "github.com/allisson/phiguard/internal/errors"
)

// PBKDF2Hasher implements Hasher with PBKDF2-HMAC-SHA256.
type PBKDF2Hasher struct {
	iterations uint64
}

// NewPBKDF2Hasher creates a hasher for the given iteration count, clamped to
// [DefaultIterations, MaxIterations].
func NewPBKDF2Hasher(iterations int) *PBKDF2Hasher {
	iterations = max(iterations, credentialDomain.DefaultIterations)
	iterations = min(iterations, credentialDomain.MaxIterations)
	return &PBKDF2Hasher{iterations: uint64(iterations)}
}

// Iterations returns the iteration count used for new hashes.
func (h *PBKDF2Hasher) Iterations() uint64 {
	return h.iterations
}

// Hash derives a new hash of password under a fresh 16-byte salt.
func (h *PBKDF2Hasher) Hash(password string) (credentialDomain.CredentialHash, error) {
	salt := make([]byte, credentialDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return credentialDomain.CredentialHash{}, apperrors.Wrap(err, "failed to generate salt")
	}

	return credentialDomain.CredentialHash{
		Hash:       derive(password, salt, int(h.iterations)),
		Salt:       salt,
		Iterations: h.iterations,
	}, nil
}

// HashContext runs Hash off the caller's goroutine so a cancelled context
// returns promptly.
func (h *PBKDF2Hasher) HashContext(ctx context.Context, password string) (credentialDomain.CredentialHash, error) {
	type result struct {
		hash credentialDomain.CredentialHash
		err  error
	}

	done := make(chan result, 1)
	go func() {
		hash, err := h.Hash(password)
		done <- result{hash: hash, err: err}
	}()

	select {
	case <-ctx.Done():
		return credentialDomain.CredentialHash{}, ctx.Err()
	case r := <-done:
		return r.hash, r.err
	}
}

// Verify compares password against stored in constant time. Iteration counts
// above MaxIterations fail with ErrInvalidFormat before any derivation runs.
func (h *PBKDF2Hasher) Verify(password string, stored credentialDomain.CredentialHash) (bool, error) {
	if err := stored.Validate(); err != nil {
		return false, err
	}

	candidate := derive(password, stored.Salt, int(stored.Iterations))
	return subtle.ConstantTimeCompare(candidate, stored.Hash) == 1, nil
}

// NeedsRehash reports whether stored uses fewer iterations than configured.
func (h *PBKDF2Hasher) NeedsRehash(stored credentialDomain.CredentialHash) bool {
	return stored.Iterations < h.iterations
}

func derive(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, credentialDomain.HashSize, sha256.New)
}
