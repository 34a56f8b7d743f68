package initiatereturn

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound = "item does not exist"
	failureReasonNotHeld      = "nobody holds the item"
	failureReasonNotTheHolder = "only the holder can return the item"
)

// Decide implements announcing a return. It is a pure function.
// ReturnInitiated only triggers a notification to the owner; custody changes with ConfirmReturn.
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	item := snapshot.Item

	if !item.HasHolder() {
		return core.ErrorDecision(core.Reject(core.ErrInvalidTransition, failureReasonNotHeld))
	}

	if command.HolderID.String() != item.HolderID {
		return core.ErrorDecision(core.Reject(core.ErrNotCustodian, failureReasonNotTheHolder))
	}

	return core.SuccessDecision(core.BuildReturnInitiated(item.ID, item.OwnerID, item.HolderID, command.OccurredAt))
}
