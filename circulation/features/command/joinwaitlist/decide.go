package joinwaitlist

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/waitlist"
)

const (
	failureReasonItemNotFound = "item does not exist"
)

// Decide implements joining a waitlist. It is a pure function.
//
// Business Rules:
//
//	GIVEN: An item
//	WHEN: JoinWaitlist is received from a member who is neither owner nor holder
//	THEN: WaitlistJoined is generated; the member goes to the tail; owner and holder are notified
//	ERROR: NoSuchItem, InvalidJoin for owner or holder, AlreadyQueued for a second entry
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	item := snapshot.Item
	memberID := command.MemberID.String()

	if err := waitlist.CheckJoin(item, snapshot.Waitlist, memberID); err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(core.BuildWaitlistJoined(item.ID, memberID, item.OwnerID, item.HolderID, command.OccurredAt))
}
