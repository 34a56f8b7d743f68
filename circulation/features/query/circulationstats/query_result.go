package circulationstats

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

// ItemRank is an item with the number of times it was transferred to a member.
type ItemRank struct {
	ItemID    core.ItemIDString
	Title     string
	Transfers int
}

// ReaderRank is a member with the number of transfers they received.
type ReaderRank struct {
	MemberID    core.MemberIDString
	DisplayName string
	Received    int
}

// CirculationStats represents the query result.
type CirculationStats struct {
	ApprovedMembers int
	Items           int
	Transfers       int
	TopItems        []ItemRank
	TopReaders      []ReaderRank
	SequenceNumber  uint
}

// GetSequenceNumber returns the sequence number of the last movement used to build the projection.
func (r CirculationStats) GetSequenceNumber() uint {
	return r.SequenceNumber
}
