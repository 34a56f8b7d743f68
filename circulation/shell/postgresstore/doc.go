// Package postgresstore is the PostgreSQL implementation of the circulation storage contracts.
//
// Every unit of work runs in one database transaction. The item row is read with FOR UPDATE and
// written back with a version check, so two processes working on the same item serialize in the
// database and a lost race surfaces as ledger.ErrConcurrencyConflict. Ledger movements are appended
// through a postgresengine.Ledger bound to the same transaction.
//
// Queries are built with goqu and executed through the adapters package, which supports pgx pools,
// database/sql and sqlx alike. The schema is managed with goose, see Migrate.
package postgresstore
