// Package domain defines the credential hash model and its flat binary encoding.
package domain

import (
	"github.com/allisson/phiguard/internal/errors"
)

// Credential error definitions.
var (
	// ErrInvalidFormat indicates a stored credential hash that is structurally
	// invalid: truncated, carrying trailing bytes or with wrong field lengths.
	ErrInvalidFormat = errors.Wrap(errors.ErrInvalidInput, "invalid credential format")

	// ErrVerificationFailed is returned for every failed login, whatever the
	// cause, so callers cannot tell an unknown user from a wrong password.
	ErrVerificationFailed = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrTooManyAttempts indicates the per-user login throttle rejected the attempt.
	ErrTooManyAttempts = errors.Wrap(errors.ErrForbidden, "too many attempts")

	// ErrCredentialExists indicates a registration for a user that already has a credential.
	ErrCredentialExists = errors.Wrap(errors.ErrConflict, "credential already exists")
)
