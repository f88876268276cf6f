// Package usecase implements password authentication on top of the credential
// hasher, the secure key-value store and the audit trail.
package usecase

import (
	"context"

	"github.com/google/uuid"
)

// Authenticator manages password credentials for users.
//
// Every failed verification returns ErrVerificationFailed regardless of cause
// and is recorded in the audit trail without the attempted password.
type Authenticator interface {
	// Register stores a new credential for userID.
	Register(ctx context.Context, userID uuid.UUID, password string) error

	// Authenticate verifies password for userID.
	Authenticate(ctx context.Context, userID uuid.UUID, password string) error

	// ChangePassword replaces the credential after verifying the current password.
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error

	// Logout records the end of a session and drops cached key material.
	Logout(ctx context.Context, userID uuid.UUID) error
}
