package itemhistory

import (
	"time"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

// Entry is one movement of the item.
type Entry struct {
	Kind           string
	FromMemberID   core.MemberIDString
	ToMemberID     core.MemberIDString
	OccurredAt     time.Time
	BookingID      core.BookingIDString
	IsHandover     bool
	SequenceNumber uint
}

// ItemHistory represents the query result.
type ItemHistory struct {
	ItemID         core.ItemIDString
	Entries        []Entry
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last movement used to build the projection.
func (r ItemHistory) GetSequenceNumber() uint {
	return r.SequenceNumber
}
