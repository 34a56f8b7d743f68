package shell

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/bookcircle/circulation/booking"
	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/waitlist"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

// MovementMetadata is stored as JSON next to every ledger movement.
type MovementMetadata struct {
	EventType  string `json:"event_type"`
	BookingID  string `json:"booking_id,omitempty"`
	IsHandover bool   `json:"is_handover,omitempty"`
}

// LoadSnapshot reads the consistency unit of one item through its scope.
func LoadSnapshot(ctx context.Context, scope ItemScope) (core.ItemSnapshot, error) {
	item, found, err := scope.LoadItem(ctx)
	if err != nil {
		return core.ItemSnapshot{}, err
	}

	if !found {
		return core.ItemSnapshot{}, nil
	}

	entries, err := waitlist.NewManager(scope.Waitlist()).All(ctx, item.ID)
	if err != nil {
		return core.ItemSnapshot{}, err
	}

	pending, err := booking.NewManager(scope.Bookings()).PendingFor(ctx, item.ID)
	if err != nil {
		return core.ItemSnapshot{}, err
	}

	return core.ItemSnapshot{
		ItemExists:      true,
		Item:            item,
		Waitlist:        entries,
		PendingBookings: pending,
	}, nil
}

// Apply writes the effects of one decided event through the scope.
// Every event that changes the consistency unit bumps the item version, so concurrent units of
// work on the same item conflict on SaveItem.
func Apply(ctx context.Context, scope ItemScope, before core.ItemSnapshot, event core.DomainEvent) error {
	waitlists := waitlist.NewManager(scope.Waitlist())
	bookings := booking.NewManager(scope.Bookings())

	item := before.Item
	item.Version++

	switch e := event.(type) {
	case core.ItemAdded:
		return scope.CreateItem(ctx, core.Item{
			ID:         e.ItemID,
			OwnerID:    e.OwnerID,
			Metadata:   e.Metadata,
			Visibility: core.VisibilityListed,
			Version:    1,
			AddedAt:    e.OccurredAt,
		})

	case core.ItemEdited:
		item.Metadata = e.Metadata

	case core.VisibilityChanged:
		item.Visibility = e.Visibility

	case core.ItemRemoved:
		return scope.DeleteItem(ctx, before.Item.Version)

	case core.ItemRequested:
		if _, err := bookings.Create(ctx, before.Item, e.BookingID, e.RequesterID, e.OccurredAt); err != nil {
			return err
		}

	case core.RequestRejected:
		if _, err := bookings.Resolve(ctx, e.BookingID, core.BookingRejected, e.OccurredAt); err != nil {
			return err
		}

	case core.TransferConfirmed:
		item.HolderID = e.ToMemberID
		item.RecallRequested = false

		err := appendMovement(ctx, scope, ledger.KindTransfer, e.ItemID, e.FromMemberID, e.ToMemberID, e, MovementMetadata{
			EventType:  e.EventType,
			BookingID:  e.BookingID,
			IsHandover: e.IsHandover,
		})
		if err != nil {
			return err
		}

		if e.BookingID != "" {
			if _, err = bookings.Resolve(ctx, e.BookingID, core.BookingCompleted, e.OccurredAt); err != nil {
				return err
			}
		}

		if err = waitlists.Leave(ctx, e.ItemID, e.ToMemberID); err != nil {
			return err
		}

	case core.RecallRequested:
		item.RecallRequested = true

	case core.RecallCanceled:
		item.RecallRequested = false

	case core.ReturnInitiated:
		return nil

	case core.ReturnConfirmed:
		item.HolderID = ""
		item.RecallRequested = false

		err := appendMovement(ctx, scope, ledger.KindReturn, e.ItemID, e.HolderID, e.OwnerID, e, MovementMetadata{
			EventType: e.EventType,
		})
		if err != nil {
			return err
		}

	case core.WaitlistJoined:
		if _, err := waitlists.Join(ctx, before.Item, e.MemberID, e.OccurredAt); err != nil {
			return err
		}

	case core.WaitlistLeft:
		if err := waitlists.Leave(ctx, e.ItemID, e.MemberID); err != nil {
			return err
		}

	case core.TurnSkipped:
		if _, _, err := waitlists.Advance(ctx, e.ItemID, e.MemberID); err != nil {
			return err
		}

	default:
		return fmt.Errorf("apply: unsupported event type %s", event.IsEventType())
	}

	return scope.SaveItem(ctx, item)
}

func appendMovement(
	ctx context.Context,
	scope ItemScope,
	kind ledger.MovementKind,
	itemID, from, to string,
	event core.DomainEvent,
	metadata MovementMetadata,
) error {

	metadataJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(metadata)
	if err != nil {
		return err
	}

	movement, err := ledger.BuildStorableMovement(kind, itemID, from, to, event.HasOccurredAt(), metadataJSON)
	if err != nil {
		return err
	}

	return scope.Ledger().Append(ctx, movement)
}
