package core

import (
	"time"
)

const (
	ItemRequestedEventType     = "ItemRequested"
	TransferConfirmedEventType = "TransferConfirmed"
	RequestRejectedEventType   = "RequestRejected"
	RecallRequestedEventType   = "RecallRequested"
	RecallCanceledEventType    = "RecallCanceled"
	ReturnInitiatedEventType   = "ReturnInitiated"
	ReturnConfirmedEventType   = "ReturnConfirmed"
)

// ItemRequested means a pending booking was opened.
type ItemRequested struct {
	EventHeader
	OwnerID     MemberIDString
	RequesterID MemberIDString
	BookingID   BookingIDString
}

func BuildItemRequested(
	itemID ItemIDString,
	ownerID MemberIDString,
	requesterID MemberIDString,
	bookingID BookingIDString,
	occurredAt time.Time,
) ItemRequested {

	return ItemRequested{
		EventHeader: newHeader(ItemRequestedEventType, itemID, occurredAt),
		OwnerID:     ownerID,
		RequesterID: requesterID,
		BookingID:   bookingID,
	}
}

// TransferConfirmed means custody moved from FromMemberID to ToMemberID.
// BookingID is set when a pending booking of the recipient was completed by it.
// IsHandover is true when the previous holder, not the owner, granted the transfer.
type TransferConfirmed struct {
	EventHeader
	OwnerID      MemberIDString
	FromMemberID MemberIDString
	ToMemberID   MemberIDString
	BookingID    BookingIDString
	IsHandover   bool
}

func BuildTransferConfirmed(
	itemID ItemIDString,
	ownerID MemberIDString,
	fromMemberID MemberIDString,
	toMemberID MemberIDString,
	bookingID BookingIDString,
	isHandover bool,
	occurredAt time.Time,
) TransferConfirmed {

	return TransferConfirmed{
		EventHeader:  newHeader(TransferConfirmedEventType, itemID, occurredAt),
		OwnerID:      ownerID,
		FromMemberID: fromMemberID,
		ToMemberID:   toMemberID,
		BookingID:    bookingID,
		IsHandover:   isHandover,
	}
}

// RequestRejected means the owner turned down a pending booking.
type RequestRejected struct {
	EventHeader
	OwnerID     MemberIDString
	RequesterID MemberIDString
	BookingID   BookingIDString
}

func BuildRequestRejected(
	itemID ItemIDString,
	ownerID MemberIDString,
	requesterID MemberIDString,
	bookingID BookingIDString,
	occurredAt time.Time,
) RequestRejected {

	return RequestRejected{
		EventHeader: newHeader(RequestRejectedEventType, itemID, occurredAt),
		OwnerID:     ownerID,
		RequesterID: requesterID,
		BookingID:   bookingID,
	}
}

// RecallRequested means the owner asked the holder to bring the item back.
type RecallRequested struct {
	EventHeader
	OwnerID  MemberIDString
	HolderID MemberIDString
}

func BuildRecallRequested(itemID ItemIDString, ownerID, holderID MemberIDString, occurredAt time.Time) RecallRequested {
	return RecallRequested{
		EventHeader: newHeader(RecallRequestedEventType, itemID, occurredAt),
		OwnerID:     ownerID,
		HolderID:    holderID,
	}
}

// RecallCanceled reverts RecallRequested.
type RecallCanceled struct {
	EventHeader
	OwnerID  MemberIDString
	HolderID MemberIDString
}

func BuildRecallCanceled(itemID ItemIDString, ownerID, holderID MemberIDString, occurredAt time.Time) RecallCanceled {
	return RecallCanceled{
		EventHeader: newHeader(RecallCanceledEventType, itemID, occurredAt),
		OwnerID:     ownerID,
		HolderID:    holderID,
	}
}

// ReturnInitiated is advisory: the holder says the item is on its way back. Custody does not change.
type ReturnInitiated struct {
	EventHeader
	OwnerID  MemberIDString
	HolderID MemberIDString
}

func BuildReturnInitiated(itemID ItemIDString, ownerID, holderID MemberIDString, occurredAt time.Time) ReturnInitiated {
	return ReturnInitiated{
		EventHeader: newHeader(ReturnInitiatedEventType, itemID, occurredAt),
		OwnerID:     ownerID,
		HolderID:    holderID,
	}
}

// ReturnConfirmed means the owner has the item back. NextCandidateID is the waitlist head, if any.
type ReturnConfirmed struct {
	EventHeader
	OwnerID         MemberIDString
	HolderID        MemberIDString
	NextCandidateID MemberIDString
}

func BuildReturnConfirmed(
	itemID ItemIDString,
	ownerID MemberIDString,
	holderID MemberIDString,
	nextCandidateID MemberIDString,
	occurredAt time.Time,
) ReturnConfirmed {

	return ReturnConfirmed{
		EventHeader:     newHeader(ReturnConfirmedEventType, itemID, occurredAt),
		OwnerID:         ownerID,
		HolderID:        holderID,
		NextCandidateID: nextCandidateID,
	}
}
