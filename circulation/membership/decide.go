package membership

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

// Action names an admin action in the admin log.
type Action string

const (
	ActionApprove Action = "approve_member"
	ActionReject  Action = "reject_member"
	ActionBlock   Action = "block_member"
	ActionPromote Action = "promote_member"
)

const (
	failureReasonEmptyDisplayName = "display name must not be empty"
	failureReasonActorNotAdmin    = "only admins can change memberships"
	failureReasonActorNotApproved = "the admin's own membership is not approved"
	failureReasonSelfAction       = "admins cannot change their own membership"
	failureReasonPromoteBlocked   = "blocked members cannot become admins"
)

// Decision is the outcome of an admin action: the changed member, or nothing for an idempotent action.
type Decision struct {
	Changed bool
	Member  core.Member
}

// DecideAdminAction applies action by admin to target. It is a pure function.
//
// Business Rules:
//
//	GIVEN: An approved admin and another member
//	WHEN: approve, reject, block or promote is received
//	THEN: The member gets the matching status (reject blocks), promote also approves
//	GIVEN: The member already has that status
//	THEN: Nothing happens (idempotent)
//	ERROR: NotAdmin if the actor is not an approved admin or acts on themselves
//	ERROR: InvalidInput if a blocked member is promoted
func DecideAdminAction(admin core.Member, target core.Member, action Action) (Decision, error) {
	if !admin.IsAdmin {
		return Decision{}, core.Reject(core.ErrNotAdmin, failureReasonActorNotAdmin)
	}

	if !admin.IsApproved() {
		return Decision{}, core.Reject(core.ErrNotAdmin, failureReasonActorNotApproved)
	}

	if admin.ID == target.ID {
		return Decision{}, core.Reject(core.ErrNotAdmin, failureReasonSelfAction)
	}

	changed := target

	switch action {
	case ActionApprove:
		changed.Status = core.MemberApproved

	case ActionReject, ActionBlock:
		changed.Status = core.MemberBlocked

	case ActionPromote:
		if target.Status == core.MemberBlocked {
			return Decision{}, core.Reject(core.ErrInvalidInput, failureReasonPromoteBlocked)
		}

		changed.Status = core.MemberApproved
		changed.IsAdmin = true

	default:
		return Decision{}, core.Reject(core.ErrInvalidInput, "unknown admin action "+string(action))
	}

	if changed == target {
		return Decision{Member: target}, nil
	}

	return Decision{Changed: true, Member: changed}, nil
}
