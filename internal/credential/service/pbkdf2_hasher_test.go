package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	credentialDomain "github.com/allisson/phiguard/internal/credential/domain"
)

// cheapHash builds a stored hash with a low iteration count so verification
// tests stay fast.
func cheapHash(password string, iterations uint64) credentialDomain.CredentialHash {
	salt := bytes.Repeat([]byte{0x42}, credentialDomain.SaltSize)
	return credentialDomain.CredentialHash{
		Hash:       pbkdf2.Key([]byte(password), salt, int(iterations), credentialDomain.HashSize, sha256.New),
		Salt:       salt,
		Iterations: iterations,
	}
}

func TestNewPBKDF2Hasher(t *testing.T) {
	assert.Equal(t, uint64(credentialDomain.DefaultIterations), NewPBKDF2Hasher(1000).Iterations())
	assert.Equal(t, uint64(900000), NewPBKDF2Hasher(900000).Iterations())
	assert.Equal(t, uint64(credentialDomain.MaxIterations), NewPBKDF2Hasher(1<<40).Iterations())
}

func TestPBKDF2Hasher_HashRoundTrip(t *testing.T) {
	hasher := NewPBKDF2Hasher(credentialDomain.DefaultIterations)

	first, err := hasher.Hash("Sp1!aaaaaaaa")
	require.NoError(t, err)
	second, err := hasher.Hash("Sp1!aaaaaaaa")
	require.NoError(t, err)

	assert.NotEqual(t, first.Salt, second.Salt)
	assert.NotEqual(t, first.Hash, second.Hash)

	for _, stored := range []credentialDomain.CredentialHash{first, second} {
		ok, err := hasher.Verify("Sp1!aaaaaaaa", stored)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = hasher.Verify("Sp1!aaaaaaab", stored)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	encoded, err := first.Encode()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(encoded), 60)

	decoded, err := credentialDomain.DecodeCredentialHash(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint64(600000), decoded.Iterations)
	assert.Len(t, decoded.Salt, 16)
	assert.Len(t, decoded.Hash, 32)
}

func TestPBKDF2Hasher_Verify(t *testing.T) {
	hasher := NewPBKDF2Hasher(credentialDomain.DefaultIterations)
	stored := cheapHash("correct horse", 1000)

	tests := []struct {
		name      string
		password  string
		stored    func() credentialDomain.CredentialHash
		want      bool
		expectErr error
	}{
		{
			name:     "match",
			password: "correct horse",
			stored:   func() credentialDomain.CredentialHash { return stored },
			want:     true,
		},
		{
			name:     "mismatch",
			password: "correct horsf",
			stored:   func() credentialDomain.CredentialHash { return stored },
			want:     false,
		},
		{
			name:     "empty password",
			password: "",
			stored:   func() credentialDomain.CredentialHash { return stored },
			want:     false,
		},
		{
			name:     "flipped hash bit",
			password: "correct horse",
			stored: func() credentialDomain.CredentialHash {
				c := stored
				c.Hash = bytes.Clone(stored.Hash)
				c.Hash[31] ^= 0x01
				return c
			},
			want: false,
		},
		{
			name:     "different iterations",
			password: "correct horse",
			stored: func() credentialDomain.CredentialHash {
				c := stored
				c.Iterations = 1001
				return c
			},
			want: false,
		},
		{
			name:     "short salt",
			password: "correct horse",
			stored: func() credentialDomain.CredentialHash {
				c := stored
				c.Salt = stored.Salt[:15]
				return c
			},
			expectErr: credentialDomain.ErrInvalidFormat,
		},
		{
			name:     "short hash",
			password: "correct horse",
			stored: func() credentialDomain.CredentialHash {
				c := stored
				c.Hash = stored.Hash[:16]
				return c
			},
			expectErr: credentialDomain.ErrInvalidFormat,
		},
		{
			name:     "iterations above ceiling",
			password: "correct horse",
			stored: func() credentialDomain.CredentialHash {
				c := stored
				c.Iterations = 1 << 40
				return c
			},
			expectErr: credentialDomain.ErrInvalidFormat,
		},
		{
			name:     "zero iterations",
			password: "correct horse",
			stored: func() credentialDomain.CredentialHash {
				c := stored
				c.Iterations = 0
				return c
			},
			expectErr: credentialDomain.ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := hasher.Verify(tt.password, tt.stored())
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestPBKDF2Hasher_NeedsRehash(t *testing.T) {
	hasher := NewPBKDF2Hasher(700000)

	assert.True(t, hasher.NeedsRehash(cheapHash("pw", 1000)))
	assert.True(t, hasher.NeedsRehash(credentialDomain.CredentialHash{Iterations: 600000}))
	assert.False(t, hasher.NeedsRehash(credentialDomain.CredentialHash{Iterations: 700000}))
	assert.False(t, hasher.NeedsRehash(credentialDomain.CredentialHash{Iterations: 800000}))
}

func TestPBKDF2Hasher_HashContext(t *testing.T) {
	hasher := NewPBKDF2Hasher(credentialDomain.DefaultIterations)

	t.Run("completes", func(t *testing.T) {
		stored, err := hasher.HashContext(context.Background(), "Sp1!aaaaaaaa")
		require.NoError(t, err)

		ok, err := hasher.Verify("Sp1!aaaaaaaa", stored)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		stored, err := hasher.HashContext(ctx, "Sp1!aaaaaaaa")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, stored.Hash)
	})
}
