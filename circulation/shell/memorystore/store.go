package memorystore

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
	"github.com/AntonStoeckl/bookcircle/circulation/waitlist"
	"github.com/AntonStoeckl/bookcircle/ledger"
	"github.com/AntonStoeckl/bookcircle/ledger/memoryengine"
)

// Store keeps items, waitlists, bookings, members, reviews and the admin log in maps.
type Store struct {
	mu       sync.RWMutex
	items    map[core.ItemIDString]core.Item
	waitlist map[core.ItemIDString][]core.WaitlistEntry
	bookings map[core.ItemIDString][]core.BookingRequest
	members  map[core.MemberIDString]core.Member
	reviews  []core.Review
	adminLog []core.AdminLogEntry
	ledger   *memoryengine.Ledger
}

// Option configures a Store.
type Option func(*Store)

// WithLedger sets the ledger engine movements are appended to.
func WithLedger(l *memoryengine.Ledger) Option {
	return func(s *Store) {
		s.ledger = l
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		items:    make(map[core.ItemIDString]core.Item),
		waitlist: make(map[core.ItemIDString][]core.WaitlistEntry),
		bookings: make(map[core.ItemIDString][]core.BookingRequest),
		members:  make(map[core.MemberIDString]core.Member),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.ledger == nil {
		s.ledger = memoryengine.NewLedger()
	}

	return s
}

// Ledger returns the ledger engine for queries.
func (s *Store) Ledger() ledger.Querier {
	return s.ledger
}

// WithinItem runs fn on a private copy of the item's consistency unit and commits it when fn returns nil.
func (s *Store) WithinItem(
	ctx context.Context,
	itemID core.ItemIDString,
	fn func(ctx context.Context, scope shell.ItemScope) error,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	scope := s.openScope(itemID)

	if err := fn(ctx, scope); err != nil {
		return err
	}

	return s.commit(ctx, scope)
}

func (s *Store) openScope(itemID core.ItemIDString) *itemScope {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, found := s.items[itemID]

	return &itemScope{
		itemID:        itemID,
		loadedVersion: versionOf(item, found),
		found:         found,
		item:          item,
		entries:       slices.Clone(s.waitlist[itemID]),
		bookings:      slices.Clone(s.bookings[itemID]),
	}
}

func (s *Store) commit(ctx context.Context, scope *itemScope) error {
	if !scope.dirty {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, found := s.items[scope.itemID]
	if versionOf(current, found) != scope.loadedVersion {
		return ledger.ErrConcurrencyConflict
	}

	if len(scope.movements) > 0 {
		if err := s.ledger.Append(ctx, scope.movements[0], scope.movements[1:]...); err != nil {
			return err
		}
	}

	if !scope.found {
		delete(s.items, scope.itemID)
		delete(s.waitlist, scope.itemID)
		delete(s.bookings, scope.itemID)

		return nil
	}

	s.items[scope.itemID] = scope.item
	s.waitlist[scope.itemID] = scope.entries
	s.bookings[scope.itemID] = scope.bookings

	return nil
}

func versionOf(item core.Item, found bool) uint {
	if !found {
		return 0
	}

	return item.Version
}

// GetItem returns the committed item.
func (s *Store) GetItem(_ context.Context, itemID core.ItemIDString) (core.Item, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, found := s.items[itemID]

	return item, found, nil
}

// ListItems returns all items, oldest first.
func (s *Store) ListItems(context.Context) ([]core.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]core.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}

	slices.SortFunc(items, func(a, b core.Item) int {
		if c := a.AddedAt.Compare(b.AddedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return items, nil
}

// WaitlistOf returns the waitlist of an item in queue order.
func (s *Store) WaitlistOf(_ context.Context, itemID core.ItemIDString) ([]core.WaitlistEntry, error) {
	s.mu.RLock()
	entries := slices.Clone(s.waitlist[itemID])
	s.mu.RUnlock()

	waitlist.Sort(entries)

	return entries, nil
}

// PendingBookingsOf returns the pending bookings of an item, oldest first.
func (s *Store) PendingBookingsOf(_ context.Context, itemID core.ItemIDString) ([]core.BookingRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pendingOf(s.bookings[itemID]), nil
}

func pendingOf(bookings []core.BookingRequest) []core.BookingRequest {
	pending := make([]core.BookingRequest, 0)

	for _, b := range bookings {
		if b.IsPending() {
			pending = append(pending, b)
		}
	}

	slices.SortStableFunc(pending, func(a, b core.BookingRequest) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return pending
}

var (
	_ shell.Store      = (*Store)(nil)
	_ shell.ItemReader = (*Store)(nil)
)
