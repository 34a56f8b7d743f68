package leavewaitlist

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	failureReasonItemNotFound = "item does not exist"
)

// Decide implements leaving a waitlist. Leaving without an entry is an idempotent no-op.
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	memberID := command.MemberID.String()

	if !snapshot.IsQueued(memberID) {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildWaitlistLeft(snapshot.Item.ID, memberID, command.OccurredAt))
}
