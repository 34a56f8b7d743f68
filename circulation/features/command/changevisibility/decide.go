package changevisibility

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound      = "item does not exist"
	failureReasonNotOwner          = "only the owner can change the visibility"
	failureReasonUnknownVisibility = "visibility must be listed or unlisted"
	failureReasonItemIsHeld        = "visibility cannot change while a member holds the item"
)

// Decide implements the business logic of changing the visibility. It is a pure function.
//
// Business Rules:
//
//	GIVEN: An item without holder
//	WHEN: ChangeVisibility is received from the owner
//	THEN: VisibilityChanged is generated
//	GIVEN: The item already has the requested visibility
//	THEN: Nothing happens (idempotent)
//	ERROR: NoSuchItem, NotOwner, InvalidInput for an unknown visibility, InvalidTransition while held
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	if command.Visibility != core.VisibilityListed && command.Visibility != core.VisibilityUnlisted {
		return core.ErrorDecision(core.Reject(core.ErrInvalidInput, failureReasonUnknownVisibility))
	}

	ownerID := command.OwnerID.String()
	if snapshot.Item.OwnerID != ownerID {
		return core.ErrorDecision(core.Reject(core.ErrNotOwner, failureReasonNotOwner))
	}

	if snapshot.Item.Visibility == command.Visibility {
		return core.IdempotentDecision()
	}

	if snapshot.Item.HasHolder() {
		return core.ErrorDecision(core.Reject(core.ErrInvalidTransition, failureReasonItemIsHeld))
	}

	return core.SuccessDecision(
		core.BuildVisibilityChanged(snapshot.Item.ID, ownerID, command.Visibility, command.OccurredAt),
	)
}
