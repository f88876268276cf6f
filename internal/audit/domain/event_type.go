// Package domain defines the audit trail domain model: the event taxonomy, the
// append-only record and the filters used to read it back.
package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// EventType is the stable string identifier of an audited event. It is stored
// verbatim, so identifiers must never change once records exist.
type EventType string

// Category groups event types. The audit trail retries writes of
// CategoryAuthentication events once, because login outcomes must be complete.
type Category string

// Event categories.
const (
	CategoryAccount        Category = "account"
	CategoryAuthentication Category = "authentication"
	CategoryBiometric      Category = "biometric"
	CategorySecurity       Category = "security"
	CategoryCredential     Category = "credential"
	CategoryDataAccess     Category = "data"
)

// Built-in event types.
const (
	AccountCreated EventType = "account.created"
	AccountUpdated EventType = "account.updated"
	AccountDeleted EventType = "account.deleted"

	LoginSucceeded     EventType = "auth.login_succeeded"
	LoginFailed        EventType = "auth.login_failed"
	Logout             EventType = "auth.logout"
	SessionTimeout     EventType = "auth.session_timeout"
	SessionInvalidated EventType = "auth.session_invalidated"

	BiometricEnrolled      EventType = "biometric.enrolled"
	BiometricAuthSucceeded EventType = "biometric.auth_succeeded"
	BiometricAuthFailed    EventType = "biometric.auth_failed"

	TamperingDetected  EventType = "security.tampering_detected"
	UnauthorizedAccess EventType = "security.unauthorized_access"

	CredentialChanged EventType = "credential.changed"

	DataAccessed EventType = "data.accessed"
	DataModified EventType = "data.modified"
	DataDeleted  EventType = "data.deleted"
)

var eventTypePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*\.[a-z][a-z0-9_]*$`)

var registry = struct {
	sync.RWMutex
	types map[EventType]Category
}{
	types: map[EventType]Category{
		AccountCreated:         CategoryAccount,
		AccountUpdated:         CategoryAccount,
		AccountDeleted:         CategoryAccount,
		LoginSucceeded:         CategoryAuthentication,
		LoginFailed:            CategoryAuthentication,
		Logout:                 CategoryAuthentication,
		SessionTimeout:         CategoryAuthentication,
		SessionInvalidated:     CategoryAuthentication,
		BiometricEnrolled:      CategoryBiometric,
		BiometricAuthSucceeded: CategoryAuthentication,
		BiometricAuthFailed:    CategoryAuthentication,
		TamperingDetected:      CategorySecurity,
		UnauthorizedAccess:     CategorySecurity,
		CredentialChanged:      CategoryCredential,
		DataAccessed:           CategoryDataAccess,
		DataModified:           CategoryDataAccess,
		DataDeleted:            CategoryDataAccess,
	},
}

// RegisterEventType adds a new event type to the taxonomy. Identifiers follow
// the "<group>.<name>" form in lower snake case. Registering an existing type
// again with the same category is a no-op.
func RegisterEventType(eventType EventType, category Category) error {
	if !eventTypePattern.MatchString(string(eventType)) || category == "" {
		return ErrInvalidEventType
	}

	registry.Lock()
	defer registry.Unlock()

	if existing, ok := registry.types[eventType]; ok {
		if existing != category {
			return fmt.Errorf("%w: %s is already registered", ErrInvalidEventType, eventType)
		}
		return nil
	}
	registry.types[eventType] = category
	return nil
}

// ParseEventType converts a stored identifier back into a registered EventType.
func ParseEventType(s string) (EventType, error) {
	eventType := EventType(strings.TrimSpace(s))
	if !eventType.Valid() {
		return "", ErrInvalidEventType
	}
	return eventType, nil
}

// EventTypes lists every registered event type in lexical order.
func EventTypes() []EventType {
	registry.RLock()
	defer registry.RUnlock()

	types := make([]EventType, 0, len(registry.types))
	for eventType := range registry.types {
		types = append(types, eventType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Valid reports whether the event type is registered.
func (e EventType) Valid() bool {
	_, ok := e.Category()
	return ok
}

// Category returns the category of a registered event type.
func (e EventType) Category() (Category, bool) {
	registry.RLock()
	defer registry.RUnlock()
	category, ok := registry.types[e]
	return category, ok
}

// IsAuthentication reports whether the event records an authentication outcome.
func (e EventType) IsAuthentication() bool {
	category, ok := e.Category()
	return ok && category == CategoryAuthentication
}

func (e EventType) String() string {
	return string(e)
}
