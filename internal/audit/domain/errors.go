package domain

import (
	"github.com/allisson/phiguard/internal/errors"
)

// Audit trail error definitions.
var (
	// ErrInvalidEventType indicates an event type that is not registered or malformed.
	ErrInvalidEventType = errors.Wrap(errors.ErrInvalidInput, "invalid event type")

	// ErrInvalidFilter indicates an inconsistent query filter.
	ErrInvalidFilter = errors.Wrap(errors.ErrInvalidInput, "invalid audit filter")

	// ErrLogFailed indicates that an event could not be encrypted or persisted.
	// It always wraps the underlying cause.
	ErrLogFailed = errors.New("audit log failed")

	// ErrDecryptionFailed indicates a stored record whose details envelope does
	// not open. It is fatal to the read that hit it.
	ErrDecryptionFailed = errors.Wrap(errors.ErrUnauthorized, "audit record decryption failed")

	// ErrSignatureInvalid indicates that a record's unencrypted fields were
	// modified after it was written.
	ErrSignatureInvalid = errors.Wrap(errors.ErrUnauthorized, "audit record signature invalid")
)
