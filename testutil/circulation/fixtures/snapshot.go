package fixtures

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

// FixedTime is the clock used by fixtures. Waitlist entries join one minute apart after it.
var FixedTime = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

// SnapshotBuilder refines an item snapshot. Every method returns a modified copy.
type SnapshotBuilder struct {
	snapshot core.ItemSnapshot
}

// GivenNoItem is the snapshot of an item that does not exist.
func GivenNoItem() SnapshotBuilder {
	return SnapshotBuilder{}
}

// GivenItemOnShelf is a listed item without holder, waitlist or bookings.
func GivenItemOnShelf(itemID, ownerID uuid.UUID) SnapshotBuilder {
	return SnapshotBuilder{snapshot: core.ItemSnapshot{
		ItemExists: true,
		Item: core.Item{
			ID:         itemID.String(),
			OwnerID:    ownerID.String(),
			Metadata:   core.ItemMetadata{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"},
			Visibility: core.VisibilityListed,
			Version:    1,
			AddedAt:    FixedTime,
		},
	}}
}

// HeldBy gives the item a holder.
func (b SnapshotBuilder) HeldBy(holderID uuid.UUID) SnapshotBuilder {
	b.snapshot.Item.HolderID = holderID.String()
	b.snapshot.Item.Version++

	return b
}

// Recalled marks a recall as requested.
func (b SnapshotBuilder) Recalled() SnapshotBuilder {
	b.snapshot.Item.RecallRequested = true
	b.snapshot.Item.Version++

	return b
}

// Unlisted hides the item.
func (b SnapshotBuilder) Unlisted() SnapshotBuilder {
	b.snapshot.Item.Visibility = core.VisibilityUnlisted

	return b
}

// WithMetadata replaces the item metadata.
func (b SnapshotBuilder) WithMetadata(metadata core.ItemMetadata) SnapshotBuilder {
	b.snapshot.Item.Metadata = metadata

	return b
}

// WithWaitlist queues the members in the given order.
func (b SnapshotBuilder) WithWaitlist(memberIDs ...uuid.UUID) SnapshotBuilder {
	entries := make([]core.WaitlistEntry, 0, len(b.snapshot.Waitlist)+len(memberIDs))
	entries = append(entries, b.snapshot.Waitlist...)

	for _, memberID := range memberIDs {
		position := uint(len(entries) + 1)
		entries = append(entries, core.WaitlistEntry{
			ItemID:   b.snapshot.Item.ID,
			MemberID: memberID.String(),
			JoinedAt: FixedTime.Add(time.Duration(position) * time.Minute),
			Position: position,
		})
	}

	b.snapshot.Waitlist = entries

	return b
}

// WithPendingBooking adds a pending booking of requesterID and returns its id via the snapshot.
func (b SnapshotBuilder) WithPendingBooking(bookingID, requesterID uuid.UUID) SnapshotBuilder {
	bookings := make([]core.BookingRequest, 0, len(b.snapshot.PendingBookings)+1)
	bookings = append(bookings, b.snapshot.PendingBookings...)
	bookings = append(bookings, core.BookingRequest{
		ID:          bookingID.String(),
		ItemID:      b.snapshot.Item.ID,
		RequesterID: requesterID.String(),
		Status:      core.BookingPending,
		CreatedAt:   FixedTime.Add(time.Duration(len(bookings)+1) * time.Second),
	})

	b.snapshot.PendingBookings = bookings

	return b
}

// Snapshot returns the built snapshot.
func (b SnapshotBuilder) Snapshot() core.ItemSnapshot {
	return b.snapshot
}
