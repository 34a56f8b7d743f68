package ledger

import (
	"context"
	"errors"
)

var (
	ErrEmptyTableNameSupplied         = errors.New("empty movement table name supplied")
	ErrNilDatabaseConnection          = errors.New("database connection must not be nil")
	ErrConcurrencyConflict            = errors.New("concurrency error, no rows were affected")
	ErrBuildingQueryFailed            = errors.New("building the query failed")
	ErrQueryingMovementsFailed        = errors.New("querying movements failed")
	ErrScanningDBRowFailed            = errors.New("scanning the database row failed")
	ErrBuildingStorableMovementFailed = errors.New("building the storable movement failed")
	ErrAppendingMovementFailed        = errors.New("appending the movement failed")
	ErrGettingRowsAffectedFailed      = errors.New("getting the rows affected failed")
	ErrNoMovementsToAppend            = errors.New("no movements to append")
)

// MaxSequenceNumberUint is a type alias for uint, representing the highest sequence number seen by a query.
type MaxSequenceNumberUint = uint

// Appender appends movements onto the ledger.
type Appender interface {
	Append(ctx context.Context, movement StorableMovement, additionalMovements ...StorableMovement) error
}

// Querier reads movements from the ledger in append order.
type Querier interface {
	Query(ctx context.Context, filter Filter) (StorableMovements, MaxSequenceNumberUint, error)
}

// Store is a complete ledger engine.
type Store interface {
	Appender
	Querier
}
