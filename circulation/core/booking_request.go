package core

import (
	"time"
)

// BookingStatus is the lifecycle status of a BookingRequest.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingCompleted BookingStatus = "completed"
	BookingRejected  BookingStatus = "rejected"
)

// BookingRequest is a member's request to receive an item from its owner. It is resolved exactly once.
type BookingRequest struct {
	ID          BookingIDString
	ItemID      ItemIDString
	RequesterID MemberIDString
	Status      BookingStatus
	CreatedAt   time.Time
	ResolvedAt  time.Time
}

// IsPending tells whether the request is still open.
func (b BookingRequest) IsPending() bool {
	return b.Status == BookingPending
}
