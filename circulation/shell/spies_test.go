package shell

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/bookcircle/circulation/booking"
	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/waitlist"
	"github.com/AntonStoeckl/bookcircle/ledger"
	"github.com/AntonStoeckl/bookcircle/ledger/memoryengine"
)

type spyNotifier struct {
	mu       sync.Mutex
	received []core.Notification
	err      error
}

func (s *spyNotifier) Notify(_ context.Context, n core.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, n)

	return s.err
}

func (s *spyNotifier) topics() []core.NotificationTopic {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics := make([]core.NotificationTopic, 0, len(s.received))
	for _, n := range s.received {
		topics = append(topics, n.Topic)
	}

	return topics
}

// fakeStore is a single-item store whose unit of work writes directly into its state.
// It can be told to fail the next SaveItem calls with a concurrency conflict.
type fakeStore struct {
	mu             sync.Mutex
	item           core.Item
	found          bool
	entries        []core.WaitlistEntry
	bookings       []core.BookingRequest
	ledger         *memoryengine.Ledger
	conflictsAhead int
	scopes         int
}

func newFakeStore(item core.Item) *fakeStore {
	return &fakeStore{item: item, found: true, ledger: memoryengine.NewLedger()}
}

func (s *fakeStore) WithinItem(
	ctx context.Context,
	_ core.ItemIDString,
	fn func(ctx context.Context, scope ItemScope) error,
) error {

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopes++

	return fn(ctx, &fakeScope{store: s})
}

type fakeScope struct {
	store *fakeStore
}

func (f *fakeScope) LoadItem(context.Context) (core.Item, bool, error) {
	return f.store.item, f.store.found, nil
}

func (f *fakeScope) CreateItem(_ context.Context, item core.Item) error {
	f.store.item = item
	f.store.found = true

	return nil
}

func (f *fakeScope) SaveItem(_ context.Context, item core.Item) error {
	if f.store.conflictsAhead > 0 {
		f.store.conflictsAhead--
		return ledger.ErrConcurrencyConflict
	}

	if item.Version != f.store.item.Version+1 {
		return ledger.ErrConcurrencyConflict
	}

	f.store.item = item

	return nil
}

func (f *fakeScope) DeleteItem(context.Context, uint) error {
	f.store.found = false
	f.store.item = core.Item{}

	return nil
}

func (f *fakeScope) Waitlist() waitlist.Repository {
	return f
}

func (f *fakeScope) Bookings() booking.Repository {
	return fakeBookings{scope: f}
}

func (f *fakeScope) Ledger() ledger.Appender {
	return f.store.ledger
}

func (f *fakeScope) Entries(context.Context, core.ItemIDString) ([]core.WaitlistEntry, error) {
	return append([]core.WaitlistEntry(nil), f.store.entries...), nil
}

func (f *fakeScope) Append(_ context.Context, entry core.WaitlistEntry) (core.WaitlistEntry, error) {
	entry.Position = uint(len(f.store.entries) + 1)
	f.store.entries = append(f.store.entries, entry)

	return entry, nil
}

func (f *fakeScope) Remove(_ context.Context, _ core.ItemIDString, memberID core.MemberIDString) (bool, error) {
	for i, e := range f.store.entries {
		if e.MemberID == memberID {
			f.store.entries = append(f.store.entries[:i], f.store.entries[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}

type fakeBookings struct {
	scope *fakeScope
}

func (b fakeBookings) Pending(context.Context, core.ItemIDString) ([]core.BookingRequest, error) {
	var pending []core.BookingRequest
	for _, bk := range b.scope.store.bookings {
		if bk.IsPending() {
			pending = append(pending, bk)
		}
	}

	return pending, nil
}

func (b fakeBookings) Get(_ context.Context, id core.BookingIDString) (core.BookingRequest, bool, error) {
	for _, bk := range b.scope.store.bookings {
		if bk.ID == id {
			return bk, true, nil
		}
	}

	return core.BookingRequest{}, false, nil
}

func (b fakeBookings) Insert(_ context.Context, bk core.BookingRequest) error {
	b.scope.store.bookings = append(b.scope.store.bookings, bk)
	return nil
}

func (b fakeBookings) Update(_ context.Context, bk core.BookingRequest) error {
	for i := range b.scope.store.bookings {
		if b.scope.store.bookings[i].ID == bk.ID {
			b.scope.store.bookings[i] = bk
			return nil
		}
	}

	return errors.New("booking not found")
}
