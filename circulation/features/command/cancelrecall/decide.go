package cancelrecall

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound = "item does not exist"
	failureReasonNotTheOwner  = "only the owner can cancel a recall"
	failureReasonNoRecall     = "no recall is pending"
)

// Decide implements canceling a recall: RecallPending goes back to Held. It is a pure function.
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	item := snapshot.Item

	if command.OwnerID.String() != item.OwnerID {
		return core.ErrorDecision(core.Reject(core.ErrNotOwner, failureReasonNotTheOwner))
	}

	if snapshot.State() != core.StateRecallPending {
		return core.ErrorDecision(core.Reject(core.ErrInvalidTransition, failureReasonNoRecall))
	}

	return core.SuccessDecision(core.BuildRecallCanceled(item.ID, item.OwnerID, item.HolderID, command.OccurredAt))
}
