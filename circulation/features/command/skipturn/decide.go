package skipturn

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/waitlist"
)

const (
	failureReasonItemNotFound = "item does not exist"
)

// Decide implements skipping a turn. It is a pure function.
//
// Business Rules:
//
//	GIVEN: An item whose waitlist head is the member
//	WHEN: SkipTurn is received from the member
//	THEN: TurnSkipped is generated; the entry is removed
//	AND: the new head is surfaced as next candidate when nobody holds the item
//	ERROR: NoSuchItem, InvalidTransition when the member is not the head
//
// A member who skipped may join again and is appended at the tail.
func Decide(snapshot core.ItemSnapshot, command Command) core.DecisionResult {
	if !snapshot.ItemExists {
		return core.ErrorDecision(core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound))
	}

	memberID := command.MemberID.String()

	if err := waitlist.CheckHead(snapshot.Waitlist, memberID); err != nil {
		return core.ErrorDecision(err)
	}

	var nextCandidateID core.MemberIDString
	if !snapshot.Item.HasHolder() {
		nextCandidateID = snapshot.NextCandidateAfter(memberID)
	}

	return core.SuccessDecision(core.BuildTurnSkipped(snapshot.Item.ID, memberID, nextCandidateID, command.OccurredAt))
}
