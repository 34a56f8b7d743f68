package postgresstore

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/bookcircle/circulation/booking"
	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/waitlist"
	"github.com/AntonStoeckl/bookcircle/internal/adapters"
	"github.com/AntonStoeckl/bookcircle/ledger"
	"github.com/AntonStoeckl/bookcircle/ledger/postgresengine"
)

// itemScope runs every statement of one unit of work on the same transaction.
type itemScope struct {
	store  *Store
	tx     adapters.TxAdapter
	itemID core.ItemIDString
	ledger *postgresengine.Ledger
}

// LoadItem reads the item row and locks it until the transaction ends.
func (s *itemScope) LoadItem(ctx context.Context) (core.Item, bool, error) {
	return s.store.selectItem(ctx, s.tx, s.itemID, true)
}

func (s *itemScope) CreateItem(ctx context.Context, item core.Item) error {
	record, err := itemRecord(item)
	if err != nil {
		return errors.Join(ErrBuildingQueryFailed, err)
	}

	record[colID] = s.itemID

	_, err = s.store.exec(ctx, s.tx, dialect().Insert(tableItems).Rows(record))

	return conflictOnUniqueViolation(err)
}

func (s *itemScope) SaveItem(ctx context.Context, item core.Item) error {
	if item.Version == 0 {
		return ledger.ErrConcurrencyConflict
	}

	record, err := itemRecord(item)
	if err != nil {
		return errors.Join(ErrBuildingQueryFailed, err)
	}

	stmt := dialect().
		Update(tableItems).
		Set(record).
		Where(goqu.C(colID).Eq(s.itemID), goqu.C(colVersion).Eq(item.Version-1))

	affected, err := s.store.exec(ctx, s.tx, stmt)
	if err != nil {
		return err
	}

	if affected == 0 {
		return ledger.ErrConcurrencyConflict
	}

	return nil
}

// DeleteItem removes the item row. Waitlist entries and bookings go with it by foreign key cascade.
func (s *itemScope) DeleteItem(ctx context.Context, expectedVersion uint) error {
	stmt := dialect().
		Delete(tableItems).
		Where(goqu.C(colID).Eq(s.itemID), goqu.C(colVersion).Eq(expectedVersion))

	affected, err := s.store.exec(ctx, s.tx, stmt)
	if err != nil {
		return err
	}

	if affected == 0 {
		return ledger.ErrConcurrencyConflict
	}

	return nil
}

func (s *itemScope) Waitlist() waitlist.Repository {
	return (*scopeWaitlist)(s)
}

func (s *itemScope) Bookings() booking.Repository {
	return (*scopeBookings)(s)
}

func (s *itemScope) Ledger() ledger.Appender {
	return s.ledger
}

type scopeWaitlist itemScope

func (w *scopeWaitlist) Entries(ctx context.Context, itemID core.ItemIDString) ([]core.WaitlistEntry, error) {
	return w.store.selectWaitlist(ctx, w.tx, itemID)
}

// Append places the entry behind the highest position currently stored for the item.
func (w *scopeWaitlist) Append(ctx context.Context, entry core.WaitlistEntry) (core.WaitlistEntry, error) {
	highestStmt := dialect().
		From(tableWaitlist).
		Select(goqu.COALESCE(goqu.MAX(colPosition), 0)).
		Where(goqu.C(colItemID).Eq(entry.ItemID))

	var highest uint
	err := w.store.query(ctx, w.tx, highestStmt, func(rows adapters.DBRows) error {
		return rows.Scan(&highest)
	})
	if err != nil {
		return core.WaitlistEntry{}, err
	}

	entry.Position = highest + 1

	insertStmt := dialect().
		Insert(tableWaitlist).
		Rows(goqu.Record{
			colItemID:   entry.ItemID,
			colMemberID: entry.MemberID,
			colJoinedAt: timestamp(entry.JoinedAt),
			colPosition: entry.Position,
		})

	if _, err := w.store.exec(ctx, w.tx, insertStmt); err != nil {
		return core.WaitlistEntry{}, conflictOnUniqueViolation(err)
	}

	return entry, nil
}

func (w *scopeWaitlist) Remove(ctx context.Context, itemID core.ItemIDString, memberID core.MemberIDString) (bool, error) {
	stmt := dialect().
		Delete(tableWaitlist).
		Where(goqu.C(colItemID).Eq(itemID), goqu.C(colMemberID).Eq(memberID))

	affected, err := w.store.exec(ctx, w.tx, stmt)
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

type scopeBookings itemScope

func (b *scopeBookings) Pending(ctx context.Context, itemID core.ItemIDString) ([]core.BookingRequest, error) {
	return b.store.selectPendingBookings(ctx, b.tx, itemID)
}

func (b *scopeBookings) Get(ctx context.Context, bookingID core.BookingIDString) (core.BookingRequest, bool, error) {
	stmt := bookingSelect().Where(goqu.C(colID).Eq(bookingID), goqu.C(colItemID).Eq(b.itemID))

	bookings, err := b.store.selectBookings(ctx, b.tx, stmt)
	if err != nil {
		return core.BookingRequest{}, false, err
	}

	if len(bookings) == 0 {
		return core.BookingRequest{}, false, nil
	}

	return bookings[0], true, nil
}

func (b *scopeBookings) Insert(ctx context.Context, bk core.BookingRequest) error {
	stmt := dialect().
		Insert(tableBookings).
		Rows(goqu.Record{
			colID:          bk.ID,
			colItemID:      bk.ItemID,
			colRequesterID: bk.RequesterID,
			colStatus:      string(bk.Status),
			colCreatedAt:   timestamp(bk.CreatedAt),
			colResolvedAt:  nullableTimestamp(bk.ResolvedAt),
		})

	_, err := b.store.exec(ctx, b.tx, stmt)

	return conflictOnUniqueViolation(err)
}

func (b *scopeBookings) Update(ctx context.Context, bk core.BookingRequest) error {
	stmt := dialect().
		Update(tableBookings).
		Set(goqu.Record{
			colStatus:     string(bk.Status),
			colResolvedAt: nullableTimestamp(bk.ResolvedAt),
		}).
		Where(goqu.C(colID).Eq(bk.ID), goqu.C(colItemID).Eq(b.itemID))

	affected, err := b.store.exec(ctx, b.tx, stmt)
	if err != nil {
		return err
	}

	if affected == 0 {
		return booking.NoPendingRequest()
	}

	return nil
}

// conflictOnUniqueViolation reports a lost insert race as a concurrency conflict.
func conflictOnUniqueViolation(err error) error {
	if err != nil && adapters.IsUniqueViolation(err) {
		return errors.Join(ledger.ErrConcurrencyConflict, err)
	}

	return err
}
