package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoService "github.com/allisson/phiguard/internal/crypto/service"
	cryptoUsecase "github.com/allisson/phiguard/internal/crypto/usecase"
	apperrors "github.com/allisson/phiguard/internal/errors"
	"github.com/allisson/phiguard/internal/keystore"
)

func newTestEngine() *cryptoUsecase.CryptoEngine {
	return cryptoUsecase.NewEngine(
		keystore.NewMemoryStore(),
		cryptoService.NewHKDFKeyDeriver(),
		cryptoService.NewAEADManager(),
		cryptoDomain.AESGCM,
		slog.New(slog.DiscardHandler),
	)
}

func TestRunEncryptDecrypt(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	t.Run("round trip from flags", func(t *testing.T) {
		var encrypted bytes.Buffer
		err := RunEncrypt(ctx, engine, IOTuple{Writer: &encrypted}, "patient-1", "penicillin allergy")
		require.NoError(t, err)

		encoded := strings.TrimSpace(encrypted.String())
		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Len(t, raw, len("penicillin allergy")+cryptoDomain.EnvelopeOverhead)

		var decrypted bytes.Buffer
		err = RunDecrypt(ctx, engine, IOTuple{Writer: &decrypted}, "patient-1", encoded)
		require.NoError(t, err)
		assert.Equal(t, "penicillin allergy\n", decrypted.String())
	})

	t.Run("round trip from stdin", func(t *testing.T) {
		var encrypted bytes.Buffer
		err := RunEncrypt(ctx, engine, IOTuple{Reader: strings.NewReader("note\n"), Writer: &encrypted}, "patient-2", "")
		require.NoError(t, err)

		var decrypted bytes.Buffer
		err = RunDecrypt(ctx, engine, IOTuple{Reader: &encrypted, Writer: &decrypted}, "patient-2", "")
		require.NoError(t, err)
		assert.Equal(t, "note\n", decrypted.String())
	})

	t.Run("wrong subject fails authentication", func(t *testing.T) {
		var encrypted bytes.Buffer
		require.NoError(t, RunEncrypt(ctx, engine, IOTuple{Writer: &encrypted}, "patient-1", "x"))

		err := RunDecrypt(ctx, engine, IOTuple{Writer: &bytes.Buffer{}}, "patient-2", encrypted.String())
		assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
	})

	t.Run("invalid base64", func(t *testing.T) {
		err := RunDecrypt(ctx, engine, IOTuple{Writer: &bytes.Buffer{}}, "patient-1", "not base64!")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "must be valid base64-encoded data")
	})

	t.Run("empty envelope on stdin", func(t *testing.T) {
		err := RunDecrypt(ctx, engine, IOTuple{Reader: strings.NewReader("\n"), Writer: &bytes.Buffer{}}, "patient-1", "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("truncated envelope", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString([]byte("short"))
		err := RunDecrypt(ctx, engine, IOTuple{Writer: &bytes.Buffer{}}, "patient-1", short)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidData)
	})
}

func TestRunEncryptDecrypt_SubjectValidation(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine()

	var encrypted bytes.Buffer
	require.NoError(t, RunEncrypt(ctx, engine, IOTuple{Writer: &encrypted}, "patient-1", "x"))

	tests := []struct {
		name    string
		subject string
	}{
		{name: "empty", subject: ""},
		{name: "blank", subject: "   "},
		{name: "leading whitespace", subject: " patient-1"},
		{name: "trailing whitespace", subject: "patient-1\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := RunEncrypt(ctx, engine, IOTuple{Writer: &out}, tt.subject, "x")
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Empty(t, out.String())

			err = RunDecrypt(ctx, engine, IOTuple{Writer: &out}, tt.subject, encrypted.String())
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Empty(t, out.String())
		})
	}
}
