// Package usecase implements the audit trail: an append-only, encrypted and
// signed log of security events.
package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
)

// RecordRepository is the append-only record store.
//
// Implementations must return records in ascending timestamp order, breaking
// ties by id, and must never update or delete a record.
type RecordRepository interface {
	// Append persists a complete record.
	Append(ctx context.Context, record *auditDomain.Record) error

	// Query returns the records matching filter.
	Query(ctx context.Context, filter *auditDomain.Filter) ([]*auditDomain.Record, error)

	// Count returns the number of records matching filter, ignoring filter.Limit.
	Count(ctx context.Context, filter *auditDomain.Filter) (int64, error)
}

// AuditTrail is the audit trail contract.
type AuditTrail interface {
	// Log encrypts details for subjectID (or the system subject when nil), signs
	// and appends a new record. Any failure is reported as ErrLogFailed.
	Log(ctx context.Context, eventType auditDomain.EventType, subjectID *uuid.UUID, details auditDomain.Details) error

	// Fetch returns the decrypted entries matching filter in ascending
	// timestamp order. A record that fails verification aborts the fetch.
	Fetch(ctx context.Context, filter *auditDomain.Filter) ([]*auditDomain.Entry, error)

	// Count returns the number of records matching filter without decrypting.
	Count(ctx context.Context, filter *auditDomain.Filter) (int64, error)

	// VerifyBatch checks the signature and envelope of every matching record
	// and reports the failures instead of aborting.
	VerifyBatch(ctx context.Context, filter *auditDomain.Filter) (*auditDomain.VerificationReport, error)
}
