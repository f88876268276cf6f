// Package service provides the audit record signer.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

const signingKeyInfo = "phiguard-audit-signing-v1"

// Signer computes and checks record signatures. The signature covers the
// unencrypted metadata of a record, which AEAD alone does not protect.
type Signer interface {
	// Sign returns the 32-byte HMAC-SHA256 signature of record under a key
	// derived from rootKey.
	Sign(rootKey []byte, record *auditDomain.Record) ([]byte, error)

	// Verify returns ErrSignatureInvalid unless record.Signature matches.
	Verify(rootKey []byte, record *auditDomain.Record) error
}

type hmacSigner struct{}

// NewSigner creates an HMAC-SHA256 signer whose key is derived from the root
// key with HKDF-SHA256.
func NewSigner() Signer {
	return &hmacSigner{}
}

// deriveSigningKey separates the signing key from the encryption key it is
// derived from. The info string is versioned.
func (s *hmacSigner) deriveSigningKey(rootKey []byte) ([]byte, error) {
	if len(rootKey) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	reader := hkdf.New(sha256.New, rootKey, nil, []byte(signingKeyInfo))
	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, err
	}
	return signingKey, nil
}

// canonicalize returns the byte form that is signed:
// id || timestamp_ms || event_type || subject || device_id || encrypted_details
// with variable-length fields length-prefixed.
func canonicalize(record *auditDomain.Record) []byte {
	buf := make([]byte, 0, 64+len(record.DeviceID)+len(record.EncryptedDetails))

	buf = append(buf, record.ID[:]...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(record.Timestamp.UnixMilli()))
	buf = appendLengthPrefixed(buf, []byte(record.EventType))

	if record.SubjectID != nil {
		buf = append(buf, 1)
		buf = append(buf, record.SubjectID[:]...)
	} else {
		buf = append(buf, 0)
	}

	buf = appendLengthPrefixed(buf, []byte(record.DeviceID))
	buf = appendLengthPrefixed(buf, record.EncryptedDetails)
	return buf
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// Sign generates the record signature.
func (s *hmacSigner) Sign(rootKey []byte, record *auditDomain.Record) ([]byte, error) {
	signingKey, err := s.deriveSigningKey(rootKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer cryptoDomain.Zero(signingKey)

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonicalize(record))
	return mac.Sum(nil), nil
}

// Verify checks the record signature in constant time.
func (s *hmacSigner) Verify(rootKey []byte, record *auditDomain.Record) error {
	expected, err := s.Sign(rootKey, record)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(record.Signature, expected) {
		return auditDomain.ErrSignatureInvalid
	}
	return nil
}
