package repository

import (
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
)

var baseTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestRecord(subjectID *uuid.UUID, eventType auditDomain.EventType, at time.Time) *auditDomain.Record {
	return &auditDomain.Record{
		ID:               uuid.Must(uuid.NewV7()),
		Timestamp:        at,
		EventType:        eventType,
		SubjectID:        subjectID,
		DeviceID:         "device-1",
		EncryptedDetails: []byte("envelope"),
		Signature:        []byte("signature"),
	}
}

func ptr[T any](v T) *T {
	return &v
}
