package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/phiguard/internal/metrics"
)

// authenticatorWithMetrics decorates Authenticator with metrics instrumentation.
type authenticatorWithMetrics struct {
	next    Authenticator
	metrics metrics.BusinessMetrics
}

// NewAuthenticatorWithMetrics wraps an Authenticator with metrics recording.
func NewAuthenticatorWithMetrics(next Authenticator, m metrics.BusinessMetrics) Authenticator {
	return &authenticatorWithMetrics{
		next:    next,
		metrics: m,
	}
}

func (a *authenticatorWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "credential", operation, status)
	a.metrics.RecordDuration(ctx, "credential", operation, time.Since(start), status)
}

// Register records metrics for registration.
func (a *authenticatorWithMetrics) Register(ctx context.Context, userID uuid.UUID, password string) error {
	start := time.Now()
	err := a.next.Register(ctx, userID, password)
	a.record(ctx, "register", start, err)
	return err
}

// Authenticate records metrics for login attempts.
func (a *authenticatorWithMetrics) Authenticate(ctx context.Context, userID uuid.UUID, password string) error {
	start := time.Now()
	err := a.next.Authenticate(ctx, userID, password)
	a.record(ctx, "authenticate", start, err)
	return err
}

// ChangePassword records metrics for credential changes.
func (a *authenticatorWithMetrics) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	current, next string,
) error {
	start := time.Now()
	err := a.next.ChangePassword(ctx, userID, current, next)
	a.record(ctx, "change_password", start, err)
	return err
}

// Logout records metrics for logouts.
func (a *authenticatorWithMetrics) Logout(ctx context.Context, userID uuid.UUID) error {
	start := time.Now()
	err := a.next.Logout(ctx, userID)
	a.record(ctx, "logout", start, err)
	return err
}
