package commands

import (
	"context"
	"encoding/base64"
	"fmt"

	validation "github.com/jellydator/validation"

	credentialService "github.com/allisson/phiguard/internal/credential/service"
	appValidation "github.com/allisson/phiguard/internal/validation"
)

// RunHashPassword derives a credential hash and prints its base64 encoding.
// An empty password flag reads one line from stdin.
func RunHashPassword(
	ctx context.Context,
	hasher credentialService.Hasher,
	streams IOTuple,
	password string,
	format string,
) error {
	if password == "" {
		line, err := readLine(streams.Reader)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = line
	}

	if err := validation.Validate(password, appValidation.DefaultPasswordStrength); err != nil {
		return appValidation.WrapValidationError(err)
	}

	hash, err := hasher.HashContext(ctx, password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	blob, err := hash.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode hash: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(blob)

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{
			"hash":       encoded,
			"iterations": hash.Iterations,
			"salt_size":  len(hash.Salt),
		})
	}
	_, _ = fmt.Fprintln(streams.Writer, encoded)
	return nil
}
