package waitlist

import (
	"slices"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	reasonOwnerCannotJoin  = "the owner cannot queue for their own item"
	reasonHolderCannotJoin = "the holder cannot queue for the item they hold"
	reasonAlreadyQueued    = "member is already in the waitlist"
	reasonNotHead          = "member is not at the head of the waitlist"
)

// CheckJoin validates that memberID may be appended to the waitlist of item.
func CheckJoin(item core.Item, entries []core.WaitlistEntry, memberID core.MemberIDString) error {
	switch {
	case memberID == item.OwnerID:
		return core.Reject(core.ErrInvalidJoin, reasonOwnerCannotJoin)
	case memberID == item.HolderID:
		return core.Reject(core.ErrInvalidJoin, reasonHolderCannotJoin)
	}

	if PositionOf(entries, memberID) > 0 {
		return core.Reject(core.ErrAlreadyQueued, reasonAlreadyQueued)
	}

	return nil
}

// CheckHead validates that memberID is the first entry.
func CheckHead(entries []core.WaitlistEntry, memberID core.MemberIDString) error {
	if len(entries) == 0 || entries[0].MemberID != memberID {
		return core.Reject(core.ErrInvalidTransition, reasonNotHead)
	}

	return nil
}

// Sort orders entries by join time, ties broken by insertion position.
func Sort(entries []core.WaitlistEntry) {
	slices.SortStableFunc(entries, func(a, b core.WaitlistEntry) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}

		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		default:
			return 0
		}
	})
}

// PositionOf returns the 1-based queue position of memberID, or 0 when not queued.
func PositionOf(entries []core.WaitlistEntry, memberID core.MemberIDString) int {
	for i, e := range entries {
		if e.MemberID == memberID {
			return i + 1
		}
	}

	return 0
}
