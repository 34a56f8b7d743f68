package requestrecall

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound   = "item does not exist"
	failureReasonNotTheOwner    = "only the owner can recall the item"
	failureReasonNotHeld        = "nobody holds the item"
	failureReasonAlreadyPending = "a recall is already pending"
)

// Decide implements requesting a recall. It is a pure function.
//
// Business Rules:
//
//	GIVEN: A held item
//	WHEN: RequestRecall is received from the owner
//	THEN: RecallRequested is generated and the holder is notified
//	ERROR: NoSuchItem, NotOwner, InvalidTransition when there is no holder or a recall is pending
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	item := snapshot.Item

	if command.OwnerID.String() != item.OwnerID {
		return core.ErrorDecision(core.Reject(core.ErrNotOwner, failureReasonNotTheOwner))
	}

	switch snapshot.State() {
	case core.StateHeld:
		return core.SuccessDecision(core.BuildRecallRequested(item.ID, item.OwnerID, item.HolderID, command.OccurredAt))
	case core.StateRecallPending:
		return core.ErrorDecision(core.Reject(core.ErrInvalidTransition, failureReasonAlreadyPending))
	default:
		return core.ErrorDecision(core.Reject(core.ErrInvalidTransition, failureReasonNotHeld))
	}
}
