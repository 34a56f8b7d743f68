package peerhandover

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound = "item does not exist"
	failureReasonNotHeld      = "the item is on the shelf, only the owner can hand it out"
	failureReasonNotTheHolder = "only the holder can hand the item over"
)

// Decide implements a handover between members without the owner. It is a pure function.
//
// Business Rules:
//
//	GIVEN: A held item without pending recall
//	WHEN: PeerHandover is received from the holder
//	THEN: TransferConfirmed is generated from the holder to the recipient, flagged as handover
//	ERROR: NoSuchItem if the item does not exist
//	ERROR: InvalidTransition if the item has no holder or a recall is pending
//	ERROR: NotCustodian if the caller is not the holder
//	ERROR: InvalidTransition if the recipient is the owner or the holder
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

	if err := core.CheckHandoverAllowed(item); err != nil {
		return core.ErrorDecision(err)
	}

	recipientID := command.RecipientID.String()

	if err := core.CheckRecipient(item, recipientID); err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(core.TransferTo(snapshot, recipientID, command.OccurredAt))
}
