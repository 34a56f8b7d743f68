package postgresstore

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/AntonStoeckl/bookcircle/circulation/shell/postgresstore/migrations"
)

// DriverName is the database/sql driver name migrations are run with.
const DriverName = "pgx"

// ErrMigrationFailed is returned when the schema could not be brought up to date.
var ErrMigrationFailed = errors.New("running schema migrations failed")

// Migrate applies all pending schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return ErrNilDatabaseConnection
	}

	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect(dialectPostgres); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// MigrateDSN opens a short-lived connection to dsn and applies all pending migrations.
func MigrateDSN(ctx context.Context, dsn string) error {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	defer func() { _ = db.Close() }()

	return Migrate(ctx, db)
}
