// Package postgresengine provides a PostgreSQL implementation of the ledger.
//
// SQL is built with goqu and executed through adapters for pgx, sql.DB and sqlx, so the same
// engine works with any of the three connection types. The engine can also be bound to an open
// transaction, which is how the PostgreSQL circulation store appends movements in the same
// unit of work as the item state change.
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	l, _ := postgresengine.NewLedgerFromPGXPool(db)
//
//	// With logging and metrics
//	l, _ := postgresengine.NewLedgerFromPGXPool(
//		db,
//		postgresengine.WithTableName("movements"),
//		postgresengine.WithLogger(logger),
//		postgresengine.WithMetrics(collector),
//	)
//
//	movements, maxSeq, _ := l.Query(ctx, filter)
//	err := l.Append(ctx, movement)
package postgresengine
