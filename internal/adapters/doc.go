// Package adapters provide database adapter implementations for the PostgreSQL ledger engine
// and the PostgreSQL circulation store.
//
// Three PostgreSQL libraries are supported: pgxpool.Pool, sql.DB and sqlx.DB. All adapters
// present the same DBAdapter interface for plain statements and the same TxAdapter interface
// for the units of work, so callers never depend on a specific driver.
package adapters
