package additem

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemIDTaken = "item id is already used by another owner"
)

// Decide implements the business logic of adding an item. It is a pure function.
//
// Business Rules:
//
//	GIVEN: No item with the command's id
//	WHEN: AddItem is received with valid metadata
//	THEN: ItemAdded is generated, the item is on the shelf and listed
//	GIVEN: The item was already added by the same owner
//	THEN: Nothing happens (idempotent)
//	ERROR: InvalidInput if the id belongs to another owner's item, the title is empty or the age rating is unknown
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	ownerID := command.OwnerID.String()

	if snapshot.ItemExists {
		if snapshot.Item.OwnerID == ownerID {
			return core.IdempotentDecision()
		}

		return core.ErrorDecision(core.Reject(core.ErrInvalidInput, failureReasonItemIDTaken))
	}

	if err := command.Metadata.Validate(); err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(
		core.BuildItemAdded(
			command.ItemID.String(),
			ownerID,
			command.Metadata,
			command.OccurredAt,
		),
	)
}
