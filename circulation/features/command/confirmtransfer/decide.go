package confirmtransfer

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound    = "item does not exist"
	failureReasonNotTheCustodian = "only the member who has the item can hand it over"
)

// Decide implements the business logic of confirming a transfer. It is a pure function.
//
// Business Rules:
//
//	GIVEN: An item and its custodian (the holder if there is one, else the owner)
//	WHEN: ConfirmTransfer is received from the custodian
//	THEN: TransferConfirmed is generated from the custodian to the recipient
//	ERROR: NoSuchItem if the item does not exist
//	ERROR: NotCustodian if the grantor is not the custodian
//	ERROR: InvalidTransition if the recipient is the owner or already the custodian
//	ERROR: InvalidTransition if a holder hands over while a recall is pending
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	item := snapshot.Item

	if command.GrantorID.String() != item.Custodian() {
		return core.ErrorDecision(core.Reject(core.ErrNotCustodian, failureReasonNotTheCustodian))
	}

	recipientID := command.RecipientID.String()

	if err := core.CheckRecipient(item, recipientID); err != nil {
		return core.ErrorDecision(err)
	}

	if item.HasHolder() {
		if err := core.CheckHandoverAllowed(item); err != nil {
			return core.ErrorDecision(err)
		}
	}

	return core.SuccessDecision(core.TransferTo(snapshot, recipientID, command.OccurredAt))
}
