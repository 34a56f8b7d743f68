package adapters

import "context"

// DBAdapter defines the database operations needed by the ledger engine and the circulation store.
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

// TxAdapter is a DBAdapter bound to one open transaction.
type TxAdapter interface {
	DBAdapter
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner is a DBAdapter that can open transactions.
type TxBeginner interface {
	DBAdapter
	BeginTx(ctx context.Context) (TxAdapter, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
