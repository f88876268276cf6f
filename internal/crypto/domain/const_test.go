package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, AESGCM, alg)

	alg, err = ParseAlgorithm("chacha20-poly1305")
	require.NoError(t, err)
	assert.Equal(t, ChaCha20, alg)

	_, err = ParseAlgorithm("rot13")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestEnvelopeOverhead(t *testing.T) {
	assert.Equal(t, 28, EnvelopeOverhead)
}

func TestSubjectFromUUID(t *testing.T) {
	assert.Equal(t, SystemSubject, SubjectFromUUID(nil))

	id := uuid.MustParse("0190a6c8-5c1e-7b7e-9a51-3f1d2c4b5a69")
	assert.Equal(t, "0190a6c8-5c1e-7b7e-9a51-3f1d2c4b5a69", SubjectFromUUID(&id))
}
