package edititem

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound = "item does not exist"
	failureReasonNotOwner     = "only the owner can edit an item"
)

// Decide implements the business logic of editing an item. It is a pure function.
//
// Business Rules:
//
//	GIVEN: An existing item, in any circulation state
//	WHEN: EditItem is received from the owner with valid metadata
//	THEN: ItemEdited is generated
//	GIVEN: The metadata is unchanged
//	THEN: Nothing happens (idempotent)
//	ERROR: NoSuchItem, NotOwner, InvalidInput
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	ownerID := command.OwnerID.String()
	if snapshot.Item.OwnerID != ownerID {
		return core.ErrorDecision(core.Reject(core.ErrNotOwner, failureReasonNotOwner))
	}

	if err := command.Metadata.Validate(); err != nil {
		return core.ErrorDecision(err)
	}

	if snapshot.Item.Metadata.Equal(command.Metadata) {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildItemEdited(snapshot.Item.ID, ownerID, command.Metadata, command.OccurredAt),
	)
}
