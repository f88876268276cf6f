package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// sealer holds the envelope logic shared by every AEAD implementation.
// The wrapped cipher.AEAD keeps its own copy of the key schedule, so the
// caller may zero the raw key once the sealer is built.
type sealer struct {
	aead cipher.AEAD
}

// Seal generates a NonceSize nonce with crypto/rand and seals plaintext.
// Nonces are never derived or counted: reuse under one key would be fatal to GCM.
func (s sealer) Seal(plaintext []byte) (cryptoDomain.Envelope, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return cryptoDomain.Envelope{}, fmt.Errorf("%w: nonce generation: %v", cryptoDomain.ErrEncryptionFailed, err)
	}

	return cryptoDomain.Envelope{
		Nonce:      nonce,
		Ciphertext: s.aead.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Open checks the envelope shape before verifying the tag so that malformed
// input is reported as ErrInvalidData rather than as tampering.
func (s sealer) Open(envelope cryptoDomain.Envelope) ([]byte, error) {
	if len(envelope.Nonce) != s.aead.NonceSize() || len(envelope.Ciphertext) < s.aead.Overhead() {
		return nil, cryptoDomain.ErrInvalidData
	}

	plaintext, err := s.aead.Open(nil, envelope.Nonce, envelope.Ciphertext, nil)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
