package domain

import "github.com/google/uuid"

// SubjectFromUUID returns the canonical subject string for a user identifier,
// falling back to SystemSubject when id is nil.
func SubjectFromUUID(id *uuid.UUID) string {
	if id == nil {
		return SystemSubject
	}
	return id.String()
}
