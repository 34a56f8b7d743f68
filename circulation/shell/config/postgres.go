package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const (
	defaultMaxConnections     = int32(8)
	defaultMinConnections     = int32(2)
	defaultMaxOpenConnections = 50
	defaultMaxIdleConnections = 10
	defaultMaxConnLifetime    = time.Hour
	defaultMaxConnIdleTime    = time.Minute * 5
	defaultHealthCheckPeriod  = time.Minute
	defaultConnectTimeout     = time.Second * 5
	sqlDriverName             = "postgres"
)

var ErrOpeningDatabaseFailed = errors.New("opening database connection failed")

// PGXPoolConfig parses dsn and applies the default pool settings.
func PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.MinConns = defaultMinConnections
	dbConfig.MaxConnLifetime = defaultMaxConnLifetime
	dbConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}

// OpenPGXPool creates a pgx pool and checks that the database answers.
func OpenPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := PGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()

		return nil, errors.Join(ErrOpeningDatabaseFailed, pingErr)
	}

	return pool, nil
}

// OpenSQLDB creates a database/sql pool on lib/pq and checks that the database answers.
func OpenSQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(sqlDriverName, dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	configureSQLPool(db)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()

		return nil, errors.Join(ErrOpeningDatabaseFailed, pingErr)
	}

	return db, nil
}

// OpenSQLX creates a sqlx pool on lib/pq and checks that the database answers.
func OpenSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(sqlDriverName, dsn)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	configureSQLPool(db.DB)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()

		return nil, errors.Join(ErrOpeningDatabaseFailed, pingErr)
	}

	return db, nil
}

func configureSQLPool(db *sql.DB) {
	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}
