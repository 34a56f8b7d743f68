package waitlist

import (
	"context"
	"time"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

// Repository is the storage of waitlist entries, bound to one per-item scope.
type Repository interface {
	// Entries returns the entries of an item in any order.
	Entries(ctx context.Context, itemID core.ItemIDString) ([]core.WaitlistEntry, error)
	// Append stores a new entry and assigns its Position.
	Append(ctx context.Context, entry core.WaitlistEntry) (core.WaitlistEntry, error)
	// Remove deletes the entry of memberID and reports whether one existed.
	Remove(ctx context.Context, itemID core.ItemIDString, memberID core.MemberIDString) (bool, error)
}

// Manager maintains the waitlist of items through a Repository.
type Manager struct {
	repo Repository
}

// NewManager creates a Manager.
func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo}
}

// Join appends memberID to the tail of the waitlist.
// It fails with ErrInvalidJoin for the owner or the holder and with ErrAlreadyQueued for a second entry.
func (m *Manager) Join(
	ctx context.Context,
	item core.Item,
	memberID core.MemberIDString,
	joinedAt time.Time,
) (core.WaitlistEntry, error) {

	entries, err := m.All(ctx, item.ID)
	if err != nil {
		return core.WaitlistEntry{}, err
	}

	if err = CheckJoin(item, entries, memberID); err != nil {
		return core.WaitlistEntry{}, err
	}

	return m.repo.Append(ctx, core.WaitlistEntry{
		ItemID:   item.ID,
		MemberID: memberID,
		JoinedAt: core.ToOccurredAt(joinedAt),
	})
}

// Leave removes the entry of memberID. Leaving without an entry is not an error.
func (m *Manager) Leave(ctx context.Context, itemID core.ItemIDString, memberID core.MemberIDString) error {
	_, err := m.repo.Remove(ctx, itemID, memberID)

	return err
}

// Peek returns the head of the waitlist.
func (m *Manager) Peek(ctx context.Context, itemID core.ItemIDString) (core.WaitlistEntry, bool, error) {
	entries, err := m.All(ctx, itemID)
	if err != nil || len(entries) == 0 {
		return core.WaitlistEntry{}, false, err
	}

	return entries[0], true, nil
}

// All returns the entries in queue order.
func (m *Manager) All(ctx context.Context, itemID core.ItemIDString) ([]core.WaitlistEntry, error) {
	entries, err := m.repo.Entries(ctx, itemID)
	if err != nil {
		return nil, err
	}

	Sort(entries)

	return entries, nil
}

// Advance removes memberID from the head and returns the new head, if any.
// It fails with ErrInvalidTransition when memberID is not the head.
func (m *Manager) Advance(
	ctx context.Context,
	itemID core.ItemIDString,
	memberID core.MemberIDString,
) (core.WaitlistEntry, bool, error) {

	entries, err := m.All(ctx, itemID)
	if err != nil {
		return core.WaitlistEntry{}, false, err
	}

	if err = CheckHead(entries, memberID); err != nil {
		return core.WaitlistEntry{}, false, err
	}

	if _, err = m.repo.Remove(ctx, itemID, memberID); err != nil {
		return core.WaitlistEntry{}, false, err
	}

	if len(entries) < 2 {
		return core.WaitlistEntry{}, false, nil
	}

	return entries[1], true, nil
}
