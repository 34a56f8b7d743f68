package core

import (
	"time"
)

const (
	WaitlistJoinedEventType = "WaitlistJoined"
	WaitlistLeftEventType   = "WaitlistLeft"
	TurnSkippedEventType    = "TurnSkipped"
)

// WaitlistJoined means a member was appended to the tail of the queue.
type WaitlistJoined struct {
	EventHeader
	MemberID MemberIDString
	OwnerID  MemberIDString
	HolderID MemberIDString
}

func BuildWaitlistJoined(
	itemID ItemIDString,
	memberID MemberIDString,
	ownerID MemberIDString,
	holderID MemberIDString,
	occurredAt time.Time,
) WaitlistJoined {

	return WaitlistJoined{
		EventHeader: newHeader(WaitlistJoinedEventType, itemID, occurredAt),
		MemberID:    memberID,
		OwnerID:     ownerID,
		HolderID:    holderID,
	}
}

// WaitlistLeft means a member removed their entry.
type WaitlistLeft struct {
	EventHeader
	MemberID MemberIDString
}

func BuildWaitlistLeft(itemID ItemIDString, memberID MemberIDString, occurredAt time.Time) WaitlistLeft {
	return WaitlistLeft{
		EventHeader: newHeader(WaitlistLeftEventType, itemID, occurredAt),
		MemberID:    memberID,
	}
}

// TurnSkipped means the waitlist head gave up its candidacy.
// NextCandidateID is only set when the item has no holder and someone else is queued.
type TurnSkipped struct {
	EventHeader
	MemberID        MemberIDString
	NextCandidateID MemberIDString
}

func BuildTurnSkipped(
	itemID ItemIDString,
	memberID MemberIDString,
	nextCandidateID MemberIDString,
	occurredAt time.Time,
) TurnSkipped {

	return TurnSkipped{
		EventHeader:     newHeader(TurnSkippedEventType, itemID, occurredAt),
		MemberID:        memberID,
		NextCandidateID: nextCandidateID,
	}
}
