package removeitem

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound = "item does not exist"
	failureReasonNotAllowed   = "only the owner or an admin can remove an item"
	failureReasonItemIsHeld   = "an item cannot be removed while a member holds it"
)

// Decide implements the business logic of removing an item. It is a pure function.
//
// Business Rules:
//
//	GIVEN: An item without holder
//	WHEN: RemoveItem is received from the owner or an admin
//	THEN: ItemRemoved is generated
//	ERROR: NoSuchItem if the item does not exist (a second removal included)
//	ERROR: NotOwner if the actor is neither the owner nor an admin
//	ERROR: InvalidTransition if the item is held
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	actorID := command.ActorID.String()
	if snapshot.Item.OwnerID != actorID && !command.ActorIsAdmin {
		return core.ErrorDecision(core.Reject(core.ErrNotOwner, failureReasonNotAllowed))
	}

	if snapshot.Item.HasHolder() {
		return core.ErrorDecision(core.Reject(core.ErrInvalidTransition, failureReasonItemIsHeld))
	}

	return core.SuccessDecision(
		core.BuildItemRemoved(snapshot.Item.ID, snapshot.Item.OwnerID, actorID, command.OccurredAt),
	)
}
