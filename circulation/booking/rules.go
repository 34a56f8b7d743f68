package booking

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	reasonOwnerCannotRequest = "the owner cannot request their own item"
	reasonItemIsHeld         = "the item is currently held by a member"
	reasonItemIsUnlisted     = "the item is not listed"
	reasonAlreadyPending     = "a request by this member is already pending"
	reasonNoPendingRequest   = "no pending request found"
	reasonStatusNotFinal     = "a request can only be resolved as completed or rejected"
)

// CheckRequest validates that requesterID may open a booking for item.
func CheckRequest(item core.Item, pending []core.BookingRequest, requesterID core.MemberIDString) error {
	switch {
	case requesterID == item.OwnerID:
		return core.Reject(core.ErrInvalidTransition, reasonOwnerCannotRequest)
	case item.HasHolder():
		return core.Reject(core.ErrInvalidTransition, reasonItemIsHeld)
	case !item.IsListed():
		return core.Reject(core.ErrInvalidTransition, reasonItemIsUnlisted)
	}

	if _, found := FindPending(pending, requesterID); found {
		return core.Reject(core.ErrDuplicateRequest, reasonAlreadyPending)
	}

	return nil
}

// FindPending returns the pending booking of requesterID.
func FindPending(bookings []core.BookingRequest, requesterID core.MemberIDString) (core.BookingRequest, bool) {
	for _, b := range bookings {
		if b.IsPending() && b.RequesterID == requesterID {
			return b, true
		}
	}

	return core.BookingRequest{}, false
}

// NoPendingRequest is the error for resolving a booking that is missing or already resolved.
func NoPendingRequest() error {
	return core.Reject(core.ErrNoSuchRequest, reasonNoPendingRequest)
}
