package memorystore

import (
	"context"
	"slices"

	"github.com/AntonStoeckl/bookcircle/circulation/booking"
	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/waitlist"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

// itemScope buffers all writes of one unit of work.
type itemScope struct {
	itemID        core.ItemIDString
	loadedVersion uint
	found         bool
	item          core.Item
	entries       []core.WaitlistEntry
	bookings      []core.BookingRequest
	movements     ledger.StorableMovements
	dirty         bool
}

func (s *itemScope) LoadItem(context.Context) (core.Item, bool, error) {
	return s.item, s.found, nil
}

func (s *itemScope) CreateItem(_ context.Context, item core.Item) error {
	if s.found {
		return ledger.ErrConcurrencyConflict
	}

	s.item = item
	s.found = true
	s.dirty = true

	return nil
}

func (s *itemScope) SaveItem(_ context.Context, item core.Item) error {
	if !s.found || item.Version != s.item.Version+1 {
		return ledger.ErrConcurrencyConflict
	}

	s.item = item
	s.dirty = true

	return nil
}

func (s *itemScope) DeleteItem(_ context.Context, expectedVersion uint) error {
	if !s.found || s.item.Version != expectedVersion {
		return ledger.ErrConcurrencyConflict
	}

	s.item = core.Item{}
	s.found = false
	s.entries = nil
	s.bookings = nil
	s.dirty = true

	return nil
}

func (s *itemScope) Waitlist() waitlist.Repository {
	return (*scopeWaitlist)(s)
}

func (s *itemScope) Bookings() booking.Repository {
	return (*scopeBookings)(s)
}

func (s *itemScope) Ledger() ledger.Appender {
	return (*scopeLedger)(s)
}

type scopeWaitlist itemScope

func (w *scopeWaitlist) Entries(context.Context, core.ItemIDString) ([]core.WaitlistEntry, error) {
	return slices.Clone(w.entries), nil
}

func (w *scopeWaitlist) Append(_ context.Context, entry core.WaitlistEntry) (core.WaitlistEntry, error) {
	var highest uint
	for _, e := range w.entries {
		highest = max(highest, e.Position)
	}

	entry.Position = highest + 1
	w.entries = append(w.entries, entry)
	w.dirty = true

	return entry, nil
}

func (w *scopeWaitlist) Remove(_ context.Context, _ core.ItemIDString, memberID core.MemberIDString) (bool, error) {
	idx := slices.IndexFunc(w.entries, func(e core.WaitlistEntry) bool { return e.MemberID == memberID })
	if idx < 0 {
		return false, nil
	}

	w.entries = slices.Delete(slices.Clone(w.entries), idx, idx+1)
	w.dirty = true

	return true, nil
}

type scopeBookings itemScope

func (b *scopeBookings) Pending(context.Context, core.ItemIDString) ([]core.BookingRequest, error) {
	return pendingOf(b.bookings), nil
}

func (b *scopeBookings) Get(_ context.Context, bookingID core.BookingIDString) (core.BookingRequest, bool, error) {
	for _, bk := range b.bookings {
		if bk.ID == bookingID {
			return bk, true, nil
		}
	}

	return core.BookingRequest{}, false, nil
}

func (b *scopeBookings) Insert(_ context.Context, bk core.BookingRequest) error {
	b.bookings = append(b.bookings, bk)
	b.dirty = true

	return nil
}

func (b *scopeBookings) Update(_ context.Context, bk core.BookingRequest) error {
	idx := slices.IndexFunc(b.bookings, func(existing core.BookingRequest) bool { return existing.ID == bk.ID })
	if idx < 0 {
		return booking.NoPendingRequest()
	}

	b.bookings = slices.Clone(b.bookings)
	b.bookings[idx] = bk
	b.dirty = true

	return nil
}

type scopeLedger itemScope

func (l *scopeLedger) Append(_ context.Context, movement ledger.StorableMovement, additional ...ledger.StorableMovement) error {
	l.movements = append(l.movements, movement)
	l.movements = append(l.movements, additional...)
	l.dirty = true

	return nil
}
