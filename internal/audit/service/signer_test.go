package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

func newRecord() *auditDomain.Record {
	subject := uuid.MustParse("0190a6c8-5c1e-7b7e-9a51-3f1d2c4b5a69")
	return &auditDomain.Record{
		ID:               uuid.MustParse("0190a6c8-5c1e-7b7e-9a51-000000000001"),
		Timestamp:        time.Date(2026, 3, 1, 12, 0, 0, 123000000, time.UTC),
		EventType:        auditDomain.LoginFailed,
		SubjectID:        &subject,
		DeviceID:         "tablet-7",
		EncryptedDetails: bytes.Repeat([]byte{0xAB}, 40),
	}
}

func TestSigner_SignVerify(t *testing.T) {
	signer := NewSigner()
	rootKey := bytes.Repeat([]byte{0x11}, cryptoDomain.KeySize)

	record := newRecord()
	signature, err := signer.Sign(rootKey, record)
	require.NoError(t, err)
	assert.Len(t, signature, 32)

	record.Signature = signature
	assert.NoError(t, signer.Verify(rootKey, record))

	again, err := signer.Sign(rootKey, record)
	require.NoError(t, err)
	assert.Equal(t, signature, again, "signatures are deterministic")
}

func TestSigner_DetectsTampering(t *testing.T) {
	signer := NewSigner()
	rootKey := bytes.Repeat([]byte{0x11}, cryptoDomain.KeySize)

	other := uuid.MustParse("0190a6c8-5c1e-7b7e-9a51-3f1d2c4b5a70")

	tests := []struct {
		name   string
		mutate func(r *auditDomain.Record)
	}{
		{name: "id", mutate: func(r *auditDomain.Record) { r.ID = uuid.MustParse("0190a6c8-5c1e-7b7e-9a51-000000000002") }},
		{name: "timestamp", mutate: func(r *auditDomain.Record) { r.Timestamp = r.Timestamp.Add(time.Millisecond) }},
		{name: "event type", mutate: func(r *auditDomain.Record) { r.EventType = auditDomain.LoginSucceeded }},
		{name: "subject", mutate: func(r *auditDomain.Record) { r.SubjectID = &other }},
		{name: "subject removed", mutate: func(r *auditDomain.Record) { r.SubjectID = nil }},
		{name: "device", mutate: func(r *auditDomain.Record) { r.DeviceID = "tablet-8" }},
		{name: "details", mutate: func(r *auditDomain.Record) { r.EncryptedDetails[0] ^= 0x01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := newRecord()
			signature, err := signer.Sign(rootKey, record)
			require.NoError(t, err)
			record.Signature = signature

			tt.mutate(record)
			assert.ErrorIs(t, signer.Verify(rootKey, record), auditDomain.ErrSignatureInvalid)
		})
	}

	t.Run("different root key", func(t *testing.T) {
		record := newRecord()
		signature, err := signer.Sign(rootKey, record)
		require.NoError(t, err)
		record.Signature = signature

		otherKey := bytes.Repeat([]byte{0x22}, cryptoDomain.KeySize)
		assert.ErrorIs(t, signer.Verify(otherKey, record), auditDomain.ErrSignatureInvalid)
	})
}

func TestSigner_InvalidRootKey(t *testing.T) {
	_, err := NewSigner().Sign(make([]byte, 16), newRecord())
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
}

func TestCanonicalize_FieldBoundaries(t *testing.T) {
	a := newRecord()
	a.DeviceID = "ab"
	a.EncryptedDetails = []byte("c")

	b := newRecord()
	b.DeviceID = "a"
	b.EncryptedDetails = []byte("bc")

	assert.NotEqual(t, canonicalize(a), canonicalize(b))
}
