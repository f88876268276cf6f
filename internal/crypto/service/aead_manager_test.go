package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()

	tests := []struct {
		name     string
		key      []byte
		alg      cryptoDomain.Algorithm
		wantType any
		wantErr  error
	}{
		{name: "aes-gcm", key: make([]byte, 32), alg: cryptoDomain.AESGCM, wantType: &AESGCMCipher{}},
		{
			name:     "chacha20-poly1305",
			key:      make([]byte, 32),
			alg:      cryptoDomain.ChaCha20,
			wantType: &ChaCha20Poly1305Cipher{},
		},
		{name: "unsupported algorithm", key: make([]byte, 32), alg: "rc4", wantErr: cryptoDomain.ErrUnsupportedAlgorithm},
		{name: "short key", key: make([]byte, 16), alg: cryptoDomain.AESGCM, wantErr: cryptoDomain.ErrInvalidKeySize},
		{name: "nil key", key: nil, alg: cryptoDomain.ChaCha20, wantErr: cryptoDomain.ErrInvalidKeySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := manager.CreateCipher(tt.key, tt.alg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, c)
		})
	}
}

func TestAEADManagerService_CipherOutlivesZeroedKey(t *testing.T) {
	key := newKey(t)
	c, err := NewAEADManager().CreateCipher(key, cryptoDomain.AESGCM)
	require.NoError(t, err)

	env, err := c.Seal([]byte("in flight"))
	require.NoError(t, err)

	cryptoDomain.Zero(key)

	plaintext, err := c.Open(env)
	require.NoError(t, err)
	assert.Equal(t, []byte("in flight"), plaintext)
}
