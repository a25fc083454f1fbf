package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is something that happened in circulation.
type DomainEvent interface {
	// EventType is the type identifier stored with the event.
	EventType() string

	// HasOccurredAt returns when the event occurred.
	HasOccurredAt() time.Time

	// IsErrorEvent reports whether the event records a rejected request.
	IsErrorEvent() bool
}
