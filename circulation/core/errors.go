package core

import (
	"errors"
)

// Error taxonomy of the circulation engine. Decide functions join one of these with a reason,
// so callers match with errors.Is.
var (
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrNotCustodian       = errors.New("not the custodian")
	ErrNotOwner           = errors.New("not the owner")
	ErrDuplicateRequest   = errors.New("duplicate request")
	ErrAlreadyQueued      = errors.New("already queued")
	ErrNoSuchItem         = errors.New("no such item")
	ErrNoSuchRequest      = errors.New("no such request")
	ErrInvalidJoin        = errors.New("invalid join")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Community errors, used outside the custody state machine.
var (
	ErrNoSuchMember        = errors.New("no such member")
	ErrMemberNotApproved   = errors.New("member is not approved")
	ErrNotAdmin            = errors.New("not an admin")
	ErrNoSuchReview        = errors.New("no such review")
	ErrInvalidInput        = errors.New("invalid input")
	ErrMemberAlreadyExists = errors.New("member already exists")
)

// Reject joins a sentinel with a human-readable reason.
func Reject(sentinel error, reason string) error {
	return errors.Join(sentinel, errors.New(reason))
}
