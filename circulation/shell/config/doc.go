// Package config loads the runtime configuration of the bookcircle service and builds the
// infrastructure it describes: PostgreSQL connection pools for the three supported drivers
// (pgx, database/sql with lib/pq, sqlx) and the OpenTelemetry trace and metric providers.
//
// Settings are read from BOOKCIRCLE_* environment variables, optionally seeded from a .env file.
package config
