package confirmreturn

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound = "item does not exist"
	failureReasonNotTheOwner  = "only the owner can confirm a return"
	failureReasonNotHeld      = "nobody holds the item"
)

// Decide implements confirming a return. It is a pure function.
//
// Business Rules:
//
//	GIVEN: A held item, with or without pending recall
//	WHEN: ConfirmReturn is received from the owner
//	THEN: ReturnConfirmed is generated, carrying the waitlist head as next candidate
//	ERROR: NoSuchItem, NotOwner, InvalidTransition when there is no holder
//
// The next candidate is only surfaced; custody stays with the owner until a transfer is confirmed.
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	item := snapshot.Item

	if command.OwnerID.String() != item.OwnerID {
		return core.ErrorDecision(core.Reject(core.ErrNotOwner, failureReasonNotTheOwner))
	}

	if !item.HasHolder() {
		return core.ErrorDecision(core.Reject(core.ErrInvalidTransition, failureReasonNotHeld))
	}

	return core.SuccessDecision(
		core.BuildReturnConfirmed(
			item.ID,
			item.OwnerID,
			item.HolderID,
			snapshot.NextCandidateAfter(item.HolderID),
			command.OccurredAt,
		),
	)
}
