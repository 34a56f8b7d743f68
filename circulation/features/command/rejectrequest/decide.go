package rejectrequest

import (
	"github.com/AntonStoeckl/bookcircle/circulation/booking"
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound = "item does not exist"
	failureReasonNotTheOwner  = "only the owner can reject requests"
)

// Decide implements rejecting a request. It is a pure function.
//
// Business Rules:
//
//	GIVEN: An item with a pending request of the requester
//	WHEN: RejectRequest is received from the owner
//	THEN: RequestRejected is generated; the item state is otherwise unchanged
//	ERROR: NoSuchItem if the item does not exist
//	ERROR: NotOwner if the caller is not the owner
//	ERROR: NoSuchRequest if the requester has no pending request
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	if command.OwnerID.String() != snapshot.Item.OwnerID {
		return core.ErrorDecision(core.Reject(core.ErrNotOwner, failureReasonNotTheOwner))
	}

	pending, found := snapshot.PendingBookingOf(command.RequesterID.String())
	if !found {
		return core.ErrorDecision(booking.NoPendingRequest())
	}

	return core.SuccessDecision(
		core.BuildRequestRejected(
			snapshot.Item.ID,
			snapshot.Item.OwnerID,
			pending.RequesterID,
			pending.ID,
			command.OccurredAt,
		),
	)
}
