package booking

import (
	"context"
	"time"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

// Repository is the storage of booking requests, bound to one per-item scope.
type Repository interface {
	Pending(ctx context.Context, itemID core.ItemIDString) ([]core.BookingRequest, error)
	Get(ctx context.Context, bookingID core.BookingIDString) (core.BookingRequest, bool, error)
	Insert(ctx context.Context, booking core.BookingRequest) error
	Update(ctx context.Context, booking core.BookingRequest) error
}

// Manager maintains booking requests through a Repository.
type Manager struct {
	repo Repository
}

// NewManager creates a Manager.
func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo}
}

// Create opens a pending booking for requesterID.
func (m *Manager) Create(
	ctx context.Context,
	item core.Item,
	bookingID core.BookingIDString,
	requesterID core.MemberIDString,
	createdAt time.Time,
) (core.BookingRequest, error) {

	pending, err := m.repo.Pending(ctx, item.ID)
	if err != nil {
		return core.BookingRequest{}, err
	}

	if err = CheckRequest(item, pending, requesterID); err != nil {
		return core.BookingRequest{}, err
	}

	booking := core.BookingRequest{
		ID:          bookingID,
		ItemID:      item.ID,
		RequesterID: requesterID,
		Status:      core.BookingPending,
		CreatedAt:   core.ToOccurredAt(createdAt),
	}

	if err = m.repo.Insert(ctx, booking); err != nil {
		return core.BookingRequest{}, err
	}

	return booking, nil
}

// Resolve moves a pending booking to completed or rejected, exactly once.
// It fails with ErrNoSuchRequest for a missing or already resolved booking.
func (m *Manager) Resolve(
	ctx context.Context,
	bookingID core.BookingIDString,
	status core.BookingStatus,
	resolvedAt time.Time,
) (core.BookingRequest, error) {

	if status != core.BookingCompleted && status != core.BookingRejected {
		return core.BookingRequest{}, core.Reject(core.ErrInvalidInput, reasonStatusNotFinal)
	}

	booking, found, err := m.repo.Get(ctx, bookingID)
	if err != nil {
		return core.BookingRequest{}, err
	}

	if !found || !booking.IsPending() {
		return core.BookingRequest{}, NoPendingRequest()
	}

	booking.Status = status
	booking.ResolvedAt = core.ToOccurredAt(resolvedAt)

	if err = m.repo.Update(ctx, booking); err != nil {
		return core.BookingRequest{}, err
	}

	return booking, nil
}

// PendingFor returns the pending bookings of an item, oldest first.
func (m *Manager) PendingFor(ctx context.Context, itemID core.ItemIDString) ([]core.BookingRequest, error) {
	return m.repo.Pending(ctx, itemID)
}

// PendingByRequester returns the pending booking of one requester.
func (m *Manager) PendingByRequester(
	ctx context.Context,
	itemID core.ItemIDString,
	requesterID core.MemberIDString,
) (core.BookingRequest, bool, error) {

	pending, err := m.repo.Pending(ctx, itemID)
	if err != nil {
		return core.BookingRequest{}, false, err
	}

	b, found := FindPending(pending, requesterID)

	return b, found, nil
}
