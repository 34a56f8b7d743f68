package postgresstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
	"github.com/AntonStoeckl/bookcircle/internal/adapters"
	"github.com/AntonStoeckl/bookcircle/ledger"
	"github.com/AntonStoeckl/bookcircle/ledger/postgresengine"
)

const (
	logMsgSQLExecuted     = "executed sql"
	logMsgRollbackFailed  = "rolling back transaction failed"
	logMsgCloseRowsFailed = "failed to close database rows"
	logAttrQuery          = "query"
	logAttrDurationMS     = "duration_ms"
	logAttrError          = "error"
	logAttrItemID         = "item_id"
	logAttrUnitOfWork     = "unit_of_work"
)

var (
	ErrNilDatabaseConnection = ledger.ErrNilDatabaseConnection
	ErrBeginTxFailed         = errors.New("beginning transaction failed")
	ErrCommitFailed          = errors.New("committing transaction failed")
	ErrBuildingQueryFailed   = errors.New("building sql query failed")
	ErrQueryFailed           = errors.New("querying circulation tables failed")
	ErrExecFailed            = errors.New("writing circulation tables failed")
	ErrScanFailed            = errors.New("scanning database row failed")
)

// Store implements shell.Store, shell.ItemReader and the community repositories on PostgreSQL.
type Store struct {
	db            adapters.TxBeginner
	ledger        *postgresengine.Ledger
	ledgerOptions []postgresengine.Option
	logger        shell.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets the logger for SQL statements and rollback failures. It is handed to the ledger engine as well.
func WithLogger(logger shell.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		s.ledgerOptions = append(s.ledgerOptions, postgresengine.WithLogger(logger))

		return nil
	}
}

// WithLedgerOptions passes options to every ledger engine the store creates.
func WithLedgerOptions(options ...postgresengine.Option) Option {
	return func(s *Store) error {
		s.ledgerOptions = append(s.ledgerOptions, options...)

		return nil
	}
}

// NewStoreFromPGXPool creates a Store on a pgx pool.
func NewStoreFromPGXPool(pool *pgxpool.Pool, options ...Option) (*Store, error) {
	if pool == nil {
		return nil, ErrNilDatabaseConnection
	}

	return NewStore(adapters.NewPGXAdapter(pool), options...)
}

// NewStoreFromPGXPoolAndReplica creates a Store whose eventually consistent reads go to the replica.
func NewStoreFromPGXPoolAndReplica(pool *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*Store, error) {
	if pool == nil || replica == nil {
		return nil, ErrNilDatabaseConnection
	}

	return NewStore(adapters.NewPGXAdapterWithReplica(pool, replica), options...)
}

// NewStoreFromSQLDB creates a Store on a database/sql connection pool.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return NewStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a Store on a sqlx connection pool.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return NewStore(adapters.NewSQLXAdapter(db), options...)
}

// NewStore creates a Store on any adapter that can open transactions.
func NewStore(db adapters.TxBeginner, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	s := &Store{db: db}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	l, err := postgresengine.NewLedger(db, s.ledgerOptions...)
	if err != nil {
		return nil, err
	}

	s.ledger = l

	return s, nil
}

// Ledger returns the ledger engine for queries.
func (s *Store) Ledger() ledger.Querier {
	return s.ledger
}

// WithinItem runs fn in one transaction. The transaction is committed when fn returns nil and rolled back otherwise.
func (s *Store) WithinItem(
	ctx context.Context,
	itemID core.ItemIDString,
	fn func(ctx context.Context, scope shell.ItemScope) error,
) error {

	tx, beginErr := s.db.BeginTx(ctx)
	if beginErr != nil {
		return errors.Join(ErrBeginTxFailed, beginErr)
	}

	committed := false
	defer func() {
		if !committed {
			s.rollback(ctx, tx, logAttrItemID, itemID)
		}
	}()

	txLedger, ledgerErr := postgresengine.NewLedger(tx, s.ledgerOptions...)
	if ledgerErr != nil {
		return ledgerErr
	}

	scope := &itemScope{store: s, tx: tx, itemID: itemID, ledger: txLedger}

	if err := fn(ctx, scope); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrCommitFailed, err)
	}

	committed = true

	return nil
}

func (s *Store) rollback(ctx context.Context, tx adapters.TxAdapter, args ...any) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && s.logger != nil {
		s.logger.Warn(logMsgRollbackFailed, append(args, logAttrError, err.Error())...)
	}
}

// GetItem returns the committed item.
func (s *Store) GetItem(ctx context.Context, itemID core.ItemIDString) (core.Item, bool, error) {
	return s.selectItem(ctx, s.db, itemID, false)
}

// ListItems returns all items, oldest first.
func (s *Store) ListItems(ctx context.Context) ([]core.Item, error) {
	stmt := dialect().
		From(tableItems).
		Select(itemColumns()...).
		Order(goqu.C(colAddedAt).Asc(), goqu.C(colID).Asc())

	items := make([]core.Item, 0)
	err := s.query(ctx, s.db, stmt, func(rows adapters.DBRows) error {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return scanErr
		}

		items = append(items, item)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// WaitlistOf returns the waitlist of an item in queue order.
func (s *Store) WaitlistOf(ctx context.Context, itemID core.ItemIDString) ([]core.WaitlistEntry, error) {
	return s.selectWaitlist(ctx, s.db, itemID)
}

// PendingBookingsOf returns the pending bookings of an item, oldest first.
func (s *Store) PendingBookingsOf(ctx context.Context, itemID core.ItemIDString) ([]core.BookingRequest, error) {
	return s.selectPendingBookings(ctx, s.db, itemID)
}

func (s *Store) selectItem(
	ctx context.Context,
	db adapters.DBAdapter,
	itemID core.ItemIDString,
	forUpdate bool,
) (core.Item, bool, error) {

	stmt := dialect().
		From(tableItems).
		Select(itemColumns()...).
		Where(goqu.C(colID).Eq(itemID))

	if forUpdate {
		stmt = stmt.ForUpdate(exp.Wait)
	}

	var item core.Item
	found := false

	err := s.query(ctx, db, stmt, func(rows adapters.DBRows) error {
		scanned, scanErr := scanItem(rows)
		if scanErr != nil {
			return scanErr
		}

		item, found = scanned, true

		return nil
	})
	if err != nil {
		return core.Item{}, false, err
	}

	return item, found, nil
}

func (s *Store) selectWaitlist(
	ctx context.Context,
	db adapters.DBAdapter,
	itemID core.ItemIDString,
) ([]core.WaitlistEntry, error) {

	stmt := dialect().
		From(tableWaitlist).
		Select(colItemID, colMemberID, colJoinedAt, colPosition).
		Where(goqu.C(colItemID).Eq(itemID)).
		Order(goqu.C(colPosition).Asc())

	entries := make([]core.WaitlistEntry, 0)
	err := s.query(ctx, db, stmt, func(rows adapters.DBRows) error {
		var entry core.WaitlistEntry
		if scanErr := rows.Scan(&entry.ItemID, &entry.MemberID, &entry.JoinedAt, &entry.Position); scanErr != nil {
			return scanErr
		}

		entries = append(entries, entry)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *Store) selectPendingBookings(
	ctx context.Context,
	db adapters.DBAdapter,
	itemID core.ItemIDString,
) ([]core.BookingRequest, error) {

	stmt := bookingSelect().
		Where(goqu.C(colItemID).Eq(itemID), goqu.C(colStatus).Eq(string(core.BookingPending))).
		Order(goqu.C(colCreatedAt).Asc())

	return s.selectBookings(ctx, db, stmt)
}

func (s *Store) selectBookings(
	ctx context.Context,
	db adapters.DBAdapter,
	stmt *goqu.SelectDataset,
) ([]core.BookingRequest, error) {

	bookings := make([]core.BookingRequest, 0)
	err := s.query(ctx, db, stmt, func(rows adapters.DBRows) error {
		b, scanErr := scanBooking(rows)
		if scanErr != nil {
			return scanErr
		}

		bookings = append(bookings, b)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// sqlBuilder is implemented by all goqu datasets.
type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

// query runs a select and hands every row to scan.
func (s *Store) query(
	ctx context.Context,
	db adapters.DBAdapter,
	builder sqlBuilder,
	scan func(rows adapters.DBRows) error,
) error {

	sqlQuery, _, buildErr := builder.ToSQL()
	if buildErr != nil {
		return errors.Join(ErrBuildingQueryFailed, buildErr)
	}

	start := time.Now()
	rows, queryErr := db.Query(ctx, sqlQuery)
	s.logSQL(sqlQuery, time.Since(start))

	if queryErr != nil {
		return errors.Join(ErrQueryFailed, queryErr)
	}
	defer s.closeRows(rows)

	for rows.Next() {
		if scanErr := scan(rows); scanErr != nil {
			return errors.Join(ErrScanFailed, scanErr)
		}
	}

	if err := rows.Err(); err != nil {
		return errors.Join(ErrScanFailed, err)
	}

	return nil
}

// exec runs a write statement and returns the number of affected rows.
func (s *Store) exec(ctx context.Context, db adapters.DBAdapter, builder sqlBuilder) (int64, error) {
	sqlQuery, _, buildErr := builder.ToSQL()
	if buildErr != nil {
		return 0, errors.Join(ErrBuildingQueryFailed, buildErr)
	}

	start := time.Now()
	result, execErr := db.Exec(ctx, sqlQuery)
	s.logSQL(sqlQuery, time.Since(start))

	if execErr != nil {
		return 0, errors.Join(ErrExecFailed, execErr)
	}

	affected, affectedErr := result.RowsAffected()
	if affectedErr != nil {
		return 0, errors.Join(ErrExecFailed, affectedErr)
	}

	return affected, nil
}

func (s *Store) logSQL(sqlQuery string, duration time.Duration) {
	if s.logger == nil {
		return
	}

	s.logger.Debug(logMsgSQLExecuted, logAttrDurationMS, float64(duration.Microseconds())/1000, logAttrQuery, sqlQuery)
}

func (s *Store) closeRows(rows adapters.DBRows) {
	if err := rows.Close(); err != nil && s.logger != nil {
		s.logger.Warn(logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}

var (
	_ shell.Store      = (*Store)(nil)
	_ shell.ItemReader = (*Store)(nil)
)
