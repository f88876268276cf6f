package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	"github.com/allisson/phiguard/internal/metrics"
)

// auditTrailWithMetrics decorates AuditTrail with metrics instrumentation.
type auditTrailWithMetrics struct {
	next    AuditTrail
	metrics metrics.BusinessMetrics
}

// NewAuditTrailWithMetrics wraps an AuditTrail with metrics recording.
func NewAuditTrailWithMetrics(trail AuditTrail, m metrics.BusinessMetrics) AuditTrail {
	return &auditTrailWithMetrics{
		next:    trail,
		metrics: m,
	}
}

func (a *auditTrailWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", operation, status)
	a.metrics.RecordDuration(ctx, "audit", operation, time.Since(start), status)
}

// Log records metrics for audit log writes.
func (a *auditTrailWithMetrics) Log(
	ctx context.Context,
	eventType auditDomain.EventType,
	subjectID *uuid.UUID,
	details auditDomain.Details,
) error {
	start := time.Now()
	err := a.next.Log(ctx, eventType, subjectID, details)
	a.record(ctx, "log", start, err)
	return err
}

// Fetch records metrics for audit log reads.
func (a *auditTrailWithMetrics) Fetch(
	ctx context.Context,
	filter *auditDomain.Filter,
) ([]*auditDomain.Entry, error) {
	start := time.Now()
	entries, err := a.next.Fetch(ctx, filter)
	a.record(ctx, "fetch", start, err)
	return entries, err
}

// Count records metrics for audit log counts.
func (a *auditTrailWithMetrics) Count(ctx context.Context, filter *auditDomain.Filter) (int64, error) {
	start := time.Now()
	count, err := a.next.Count(ctx, filter)
	a.record(ctx, "count", start, err)
	return count, err
}

// VerifyBatch records metrics for audit log verification.
func (a *auditTrailWithMetrics) VerifyBatch(
	ctx context.Context,
	filter *auditDomain.Filter,
) (*auditDomain.VerificationReport, error) {
	start := time.Now()
	report, err := a.next.VerifyBatch(ctx, filter)
	a.record(ctx, "verify_batch", start, err)
	return report, err
}
