package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is the single fact a successful circulation command produces.
type DomainEvent interface {
	// IsEventType returns the string identifier for this event type.
	IsEventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// AffectsItem returns the item the event belongs to.
	AffectsItem() ItemIDString
}

// EventTypeString represents the type of domain event.
type EventTypeString = string
