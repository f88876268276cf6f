package usecase

import (
	"context"
	"log/slog"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
)

// SecurityAlerter turns crypto authentication failures into audit events.
type SecurityAlerter struct {
	trail AuditTrail
	fault *slog.Logger
}

// NewSecurityAlerter creates an alerter that logs through trail.
func NewSecurityAlerter(trail AuditTrail, logger *slog.Logger) *SecurityAlerter {
	return &SecurityAlerter{
		trail: trail,
		fault: logger.With(slog.String("channel", "fault")),
	}
}

// Alert records security.tampering_detected under the system subject. Failures
// raised by the audit trail's own reads go to the fault channel instead, since
// auditing them would recurse into the store that just failed.
func (s *SecurityAlerter) Alert(ctx context.Context, subjectID string) {
	if isInternalOperation(ctx) {
		s.fault.Error("tampering detected in audit trail")
		return
	}

	details := auditDomain.Details{
		"reason":  "envelope authentication failed",
		"subject": subjectID,
	}
	if err := s.trail.Log(withInternalOperation(ctx), auditDomain.TamperingDetected, nil, details); err != nil {
		s.fault.Error("failed to record tampering alert", slog.String("error", err.Error()))
	}
}
