package requestitem

import (
	"github.com/AntonStoeckl/bookcircle/circulation/booking"
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound = "item does not exist"
)

// Decide implements the business logic of requesting an item. It is a pure function.
//
// Business Rules:
//
//	GIVEN: An item without holder that is listed
//	WHEN: RequestItem is received from a member who is not the owner
//	THEN: ItemRequested is generated, opening a pending booking
//	ERROR: NoSuchItem if the item does not exist
//	ERROR: InvalidTransition if the requester is the owner, the item is held or unlisted
//	ERROR: DuplicateRequest if the requester already has a pending booking for the item
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	requesterID := command.RequesterID.String()

	if err := booking.CheckRequest(snapshot.Item, snapshot.PendingBookings, requesterID); err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(
		core.BuildItemRequested(
			snapshot.Item.ID,
			snapshot.Item.OwnerID,
			requesterID,
			command.BookingID.String(),
			command.OccurredAt,
		),
	)
}
