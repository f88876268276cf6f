package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoUsecase "github.com/allisson/phiguard/internal/crypto/usecase"
	appValidation "github.com/allisson/phiguard/internal/validation"
)

// subjectRules validate a subject id before any key is derived.
var subjectRules = []validation.Rule{
	validation.Required,
	appValidation.NotBlank,
	appValidation.NoWhitespace,
}

// decryptInput holds the decrypt arguments after stdin has been consulted.
type decryptInput struct {
	SubjectID string
	Envelope  string
}

// Validate checks the subject and the envelope encoding.
func (i *decryptInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.SubjectID, subjectRules...),
		validation.Field(&i.Envelope, validation.Required, appValidation.Base64),
	)
}

// RunEncrypt seals plaintext for subjectID and prints the base64 serialized
// envelope. An empty plaintext flag reads one line from stdin.
func RunEncrypt(
	ctx context.Context,
	engine cryptoUsecase.Engine,
	streams IOTuple,
	subjectID string,
	plaintext string,
) error {
	if err := validation.Validate(subjectID, subjectRules...); err != nil {
		return appValidation.WrapValidationError(err)
	}

	if plaintext == "" {
		line, err := readLine(streams.Reader)
		if err != nil {
			return fmt.Errorf("failed to read plaintext: %w", err)
		}
		plaintext = line
	}

	envelope, err := engine.Encrypt(ctx, []byte(plaintext), subjectID)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	_, _ = fmt.Fprintln(streams.Writer, base64.StdEncoding.EncodeToString(envelope.Marshal()))
	return nil
}

// RunDecrypt opens a base64 serialized envelope for subjectID and prints the
// plaintext. An empty envelope flag reads one line from stdin.
func RunDecrypt(
	ctx context.Context,
	engine cryptoUsecase.Engine,
	streams IOTuple,
	subjectID string,
	encoded string,
) error {
	if encoded == "" {
		line, err := readLine(streams.Reader)
		if err != nil {
			return fmt.Errorf("failed to read envelope: %w", err)
		}
		encoded = line
	}

	input := &decryptInput{SubjectID: subjectID, Envelope: strings.TrimSpace(encoded)}
	if err := input.Validate(); err != nil {
		return appValidation.WrapValidationError(err)
	}

	data, err := base64.StdEncoding.DecodeString(input.Envelope)
	if err != nil {
		return fmt.Errorf("invalid envelope encoding: %w", err)
	}

	envelope, err := cryptoDomain.ParseEnvelope(data)
	if err != nil {
		return fmt.Errorf("invalid envelope: %w", err)
	}

	plaintext, err := engine.Decrypt(ctx, envelope, subjectID)
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}
	defer cryptoDomain.Zero(plaintext)

	if _, err := streams.Writer.Write(plaintext); err != nil {
		return fmt.Errorf("failed to write plaintext: %w", err)
	}
	_, _ = fmt.Fprintln(streams.Writer)
	return nil
}
