package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMasterKey(t *testing.T) {
	t.Run("valid key is copied", func(t *testing.T) {
		raw := bytes.Repeat([]byte{0x42}, KeySize)

		mk, err := NewMasterKey(MasterKeyStorageKey, raw)
		require.NoError(t, err)
		assert.Equal(t, MasterKeyStorageKey, mk.ID)
		assert.Equal(t, raw, mk.Key)

		raw[0] = 0
		assert.Equal(t, byte(0x42), mk.Key[0], "master key must not alias the input")
	})

	t.Run("wrong size", func(t *testing.T) {
		for _, size := range []int{0, 16, 31, 33, 64} {
			mk, err := NewMasterKey(MasterKeyStorageKey, make([]byte, size))
			assert.Nil(t, mk)
			assert.ErrorIs(t, err, ErrInvalidKeySize)
		}
	})
}

func TestMasterKey_CloneAndClose(t *testing.T) {
	mk, err := NewMasterKey("k", bytes.Repeat([]byte{7}, KeySize))
	require.NoError(t, err)

	clone := mk.Clone()
	clone.Close()

	assert.Equal(t, make([]byte, KeySize), clone.Key)
	assert.Equal(t, bytes.Repeat([]byte{7}, KeySize), mk.Key, "closing a clone must not touch the original")
	assert.Equal(t, "k", clone.ID)
}
