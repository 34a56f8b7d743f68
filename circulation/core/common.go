package core

import (
	"time"
)

// MemberIDString represents a member identifier.
type MemberIDString = string

// ItemIDString represents an item identifier.
type ItemIDString = string

// BookingIDString represents a booking request identifier.
type BookingIDString = string

// OccurredAt represents when something happened.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}
