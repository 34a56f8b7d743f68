package core

import (
	"time"
)

const (
	ItemAddedEventType         = "ItemAdded"
	ItemEditedEventType        = "ItemEdited"
	VisibilityChangedEventType = "VisibilityChanged"
	ItemRemovedEventType       = "ItemRemoved"
)

// ItemAdded means an owner put a new item into the registry.
type ItemAdded struct {
	EventHeader
	OwnerID  MemberIDString
	Metadata ItemMetadata
}

func BuildItemAdded(itemID ItemIDString, ownerID MemberIDString, metadata ItemMetadata, occurredAt time.Time) ItemAdded {
	return ItemAdded{
		EventHeader: newHeader(ItemAddedEventType, itemID, occurredAt),
		OwnerID:     ownerID,
		Metadata:    metadata,
	}
}

// ItemEdited replaces the metadata of an item.
type ItemEdited struct {
	EventHeader
	OwnerID  MemberIDString
	Metadata ItemMetadata
}

func BuildItemEdited(itemID ItemIDString, ownerID MemberIDString, metadata ItemMetadata, occurredAt time.Time) ItemEdited {
	return ItemEdited{
		EventHeader: newHeader(ItemEditedEventType, itemID, occurredAt),
		OwnerID:     ownerID,
		Metadata:    metadata,
	}
}

// VisibilityChanged toggles whether the item can be requested.
type VisibilityChanged struct {
	EventHeader
	OwnerID    MemberIDString
	Visibility Visibility
}

func BuildVisibilityChanged(
	itemID ItemIDString,
	ownerID MemberIDString,
	visibility Visibility,
	occurredAt time.Time,
) VisibilityChanged {

	return VisibilityChanged{
		EventHeader: newHeader(VisibilityChangedEventType, itemID, occurredAt),
		OwnerID:     ownerID,
		Visibility:  visibility,
	}
}

// ItemRemoved takes the item, its waitlist and its bookings out of the registry. The ledger is kept.
type ItemRemoved struct {
	EventHeader
	OwnerID   MemberIDString
	RemovedBy MemberIDString
}

func BuildItemRemoved(itemID ItemIDString, ownerID, removedBy MemberIDString, occurredAt time.Time) ItemRemoved {
	return ItemRemoved{
		EventHeader: newHeader(ItemRemovedEventType, itemID, occurredAt),
		OwnerID:     ownerID,
		RemovedBy:   removedBy,
	}
}
