package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
)

// Details is the free-form payload of an event. It is serialized to JSON and
// only ever stored encrypted, so it is the one place sensitive content may go.
type Details map[string]any

// Record is the persisted, append-only form of an event. Only EncryptedDetails
// may carry sensitive content; every other field is stored in the clear.
type Record struct {
	ID               uuid.UUID
	Timestamp        time.Time // UTC, millisecond precision
	EventType        EventType
	SubjectID        *uuid.UUID // nil for system events
	DeviceID         string
	EncryptedDetails []byte // serialized envelope, nonce || ciphertext || tag
	Signature        []byte // HMAC-SHA256 over the canonical form of all other fields
}

// KeySubject returns the subject whose derived key encrypts the details.
func (r *Record) KeySubject() string {
	return cryptoDomain.SubjectFromUUID(r.SubjectID)
}

// Entry is a decrypted record as returned to readers.
type Entry struct {
	ID        uuid.UUID
	Timestamp time.Time
	EventType EventType
	SubjectID *uuid.UUID
	DeviceID  string
	Details   Details
}

// Filter selects records. Unset fields do not constrain the result and all set
// fields must match. From and To are inclusive.
type Filter struct {
	SubjectID *uuid.UUID
	EventType EventType
	From      *time.Time
	To        *time.Time
	// Limit caps the number of records returned by a query. Zero means no cap.
	Limit int
}

// Validate checks the filter for consistency.
func (f *Filter) Validate() error {
	err := validation.ValidateStruct(f,
		validation.Field(&f.EventType, validation.By(func(value any) error {
			eventType, _ := value.(EventType)
			if eventType != "" && !eventType.Valid() {
				return ErrInvalidEventType
			}
			return nil
		})),
		validation.Field(&f.Limit, validation.Min(0)),
	)
	if err != nil {
		return ErrInvalidFilter
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return ErrInvalidFilter
	}
	return nil
}

// Matches reports whether record satisfies every predicate of the filter.
func (f *Filter) Matches(record *Record) bool {
	if f.SubjectID != nil && (record.SubjectID == nil || *record.SubjectID != *f.SubjectID) {
		return false
	}
	if f.EventType != "" && record.EventType != f.EventType {
		return false
	}
	if f.From != nil && record.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && record.Timestamp.After(*f.To) {
		return false
	}
	return true
}

// VerificationReport summarizes an integrity check over a range of records.
type VerificationReport struct {
	Total      int
	Valid      int
	Invalid    int
	InvalidIDs []uuid.UUID
}

// Passed reports whether every checked record verified.
func (r *VerificationReport) Passed() bool {
	return r.Invalid == 0
}
