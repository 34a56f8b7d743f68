package config_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/circulation/shell/config"
)

func Test_Load_Applies_Defaults(t *testing.T) {
	// arrange
	t.Setenv("BOOKCIRCLE_JWT_SECRET", "s3cret")

	// act
	cfg, err := config.Load()

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.Storage)
	assert.Equal(t, config.DriverPGX, cfg.PostgresDriver)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, 6, cfg.RetryMaxAttempts)
	assert.True(t, cfg.CatalogEnabled)
	assert.Equal(t, "bookcircle.notifications", cfg.AMQPExchange)
	assert.Equal(t, config.ContextualLoggerBridge, cfg.ContextualLogger)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func Test_Load_Reads_Environment(t *testing.T) {
	t.Setenv("BOOKCIRCLE_JWT_SECRET", "s3cret")
	t.Setenv("BOOKCIRCLE_STORAGE", "postgres")
	t.Setenv("BOOKCIRCLE_POSTGRES_DSN", "postgres://u:p@localhost:5432/bookcircle?sslmode=disable")
	t.Setenv("BOOKCIRCLE_POSTGRES_DRIVER", "sqlx")
	t.Setenv("BOOKCIRCLE_ADMIN_IDS", "a0a0a0a0-0000-0000-0000-000000000001,a0a0a0a0-0000-0000-0000-000000000002")
	t.Setenv("BOOKCIRCLE_CATALOG_TIMEOUT", "3s")
	t.Setenv("BOOKCIRCLE_LOG_LEVEL", "debug")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.StoragePostgres, cfg.Storage)
	assert.Equal(t, config.DriverSQLX, cfg.PostgresDriver)
	assert.Len(t, cfg.AdminIDs, 2)
	assert.Equal(t, 3*time.Second, cfg.CatalogTimeout)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func Test_Load_Seeds_From_EnvFile_Without_Overriding(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BOOKCIRCLE_JWT_SECRET=from-file\nBOOKCIRCLE_HTTP_ADDR=:9999\n"), 0o600))

	t.Setenv("BOOKCIRCLE_HTTP_ADDR", ":7777")
	t.Cleanup(func() { _ = os.Unsetenv("BOOKCIRCLE_JWT_SECRET") })

	cfg, err := config.Load(envFile, filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, ":7777", cfg.HTTPAddr)
}

func Test_Load_Rejects_InvalidCombinations(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing jwt secret", env: map[string]string{}},
		{name: "unknown storage", env: map[string]string{"BOOKCIRCLE_STORAGE": "redis"}},
		{name: "postgres without dsn", env: map[string]string{"BOOKCIRCLE_STORAGE": "postgres"}},
		{name: "unknown driver", env: map[string]string{"BOOKCIRCLE_POSTGRES_DRIVER": "gorm"}},
		{name: "replica with sql driver", env: map[string]string{
			"BOOKCIRCLE_POSTGRES_DRIVER":      "sql",
			"BOOKCIRCLE_POSTGRES_REPLICA_DSN": "postgres://replica",
		}},
		{name: "zero retry attempts", env: map[string]string{"BOOKCIRCLE_RETRY_MAX_ATTEMPTS": "0"}},
		{name: "unknown log level", env: map[string]string{"BOOKCIRCLE_LOG_LEVEL": "chatty"}},
		{name: "unknown contextual logger", env: map[string]string{"BOOKCIRCLE_CONTEXTUAL_LOGGER": "stdout"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.name != "missing jwt secret" {
				t.Setenv("BOOKCIRCLE_JWT_SECRET", "s3cret")
			} else {
				t.Setenv("BOOKCIRCLE_JWT_SECRET", "")
			}

			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()

			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func Test_PGXPoolConfig_Applies_PoolSettings(t *testing.T) {
	poolConfig, err := config.PGXPoolConfig("postgres://u:p@localhost:5432/bookcircle?sslmode=disable")

	require.NoError(t, err)
	assert.Equal(t, int32(8), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, 5*time.Second, poolConfig.ConnConfig.ConnectTimeout)
}

func Test_PGXPoolConfig_Rejects_Garbage(t *testing.T) {
	_, err := config.PGXPoolConfig("postgres://u:p@localhost:notaport/bookcircle")

	assert.ErrorIs(t, err, config.ErrOpeningDatabaseFailed)
}

func Test_ObservabilityProviders_Without_Endpoint_Stay_InProcess(t *testing.T) {
	cfg := config.Config{ServiceName: "bookcircle-test"}

	providers, err := config.NewObservabilityProviders(context.Background(), cfg, "test")

	require.NoError(t, err)
	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NoError(t, providers.Shutdown(context.Background()))
}
