package core

import (
	"time"
)

// EventHeader is embedded in every domain event.
type EventHeader struct {
	EventType  EventTypeString
	ItemID     ItemIDString
	OccurredAt OccurredAt
}

func newHeader(eventType EventTypeString, itemID ItemIDString, occurredAt time.Time) EventHeader {
	return EventHeader{
		EventType:  eventType,
		ItemID:     itemID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (h EventHeader) IsEventType() string {
	return h.EventType
}

// HasOccurredAt returns when the event occurred.
func (h EventHeader) HasOccurredAt() time.Time {
	return h.OccurredAt
}

// AffectsItem returns the item the event belongs to.
func (h EventHeader) AffectsItem() ItemIDString {
	return h.ItemID
}
