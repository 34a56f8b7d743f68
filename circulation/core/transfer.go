package core

import (
	"time"
)

const (
	reasonRecipientIsOwner     = "the owner cannot receive their own item"
	reasonRecipientIsCustodian = "the recipient already has the item"
	reasonRecallPending        = "the owner recalled the item, it must go back to the owner"
)

// CheckRecipient validates the member who is to receive custody of the item.
func CheckRecipient(item Item, recipientID MemberIDString) error {
	switch recipientID {
	case item.OwnerID:
		return Reject(ErrInvalidTransition, reasonRecipientIsOwner)
	case item.Custodian():
		return Reject(ErrInvalidTransition, reasonRecipientIsCustodian)
	}

	return nil
}

// CheckHandoverAllowed rejects handovers between members while a recall is pending.
func CheckHandoverAllowed(item Item) error {
	if item.RecallRequested {
		return Reject(ErrInvalidTransition, reasonRecallPending)
	}

	return nil
}

// TransferTo builds the transfer from the current custodian to recipientID,
// completing the recipient's pending booking if there is one.
func TransferTo(snapshot ItemSnapshot, recipientID MemberIDString, occurredAt time.Time) TransferConfirmed {
	var bookingID BookingIDString
	if b, found := snapshot.PendingBookingOf(recipientID); found {
		bookingID = b.ID
	}

	return BuildTransferConfirmed(
		snapshot.Item.ID,
		snapshot.Item.OwnerID,
		snapshot.Item.Custodian(),
		recipientID,
		bookingID,
		snapshot.Item.HasHolder(),
		occurredAt,
	)
}
