package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// HKDFKeyDeriver derives per-subject keys with HKDF-SHA256.
//
// The master key is the input keying material, the subject's canonical string is
// the salt and a fixed versioned info string binds the output to its purpose.
// Recovering one derived key reveals neither the master key nor any sibling key.
type HKDFKeyDeriver struct {
	info []byte
}

// NewHKDFKeyDeriver returns a deriver using cryptoDomain.SubjectKeyInfo.
func NewHKDFKeyDeriver() *HKDFKeyDeriver {
	return &HKDFKeyDeriver{info: []byte(cryptoDomain.SubjectKeyInfo)}
}

// DeriveKey returns the KeySize key for subjectID.
func (d *HKDFKeyDeriver) DeriveKey(masterKey *cryptoDomain.MasterKey, subjectID string) ([]byte, error) {
	if masterKey == nil || len(masterKey.Key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if subjectID == "" {
		return nil, cryptoDomain.ErrInvalidSubject
	}

	reader := hkdf.New(sha256.New, masterKey.Key, []byte(subjectID), d.info)

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive subject key: %w", err)
	}
	return key, nil
}
