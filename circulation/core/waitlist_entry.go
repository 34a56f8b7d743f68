package core

import (
	"time"
)

// WaitlistEntry is one member queued for an item. Entries are ordered by JoinedAt, then by Position.
type WaitlistEntry struct {
	ItemID   ItemIDString
	MemberID MemberIDString
	JoinedAt time.Time
	Position uint
}
