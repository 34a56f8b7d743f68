package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix of all settings.
const Prefix = "BOOKCIRCLE"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	DriverPGX       = "pgx"
	DriverSQL       = "sql"
	DriverSQLX      = "sqlx"

	// ContextualLoggerBridge routes contextual logs through the otelslog bridge.
	ContextualLoggerBridge = "bridge"
	// ContextualLoggerOTel emits OpenTelemetry log records directly.
	ContextualLoggerOTel = "otel"
)

var (
	ErrLoadingEnvFileFailed = errors.New("loading env file failed")
	ErrInvalidConfig        = errors.New("invalid configuration")
)

// Config holds all settings of the service.
type Config struct {
	Storage            string        `envconfig:"STORAGE" default:"memory"`
	PostgresDSN        string        `envconfig:"POSTGRES_DSN"`
	PostgresReplicaDSN string        `envconfig:"POSTGRES_REPLICA_DSN"`
	PostgresDriver     string        `envconfig:"POSTGRES_DRIVER" default:"pgx"`
	RunMigrations      bool          `envconfig:"RUN_MIGRATIONS" default:"true"`
	HTTPAddr           string        `envconfig:"HTTP_ADDR" default:":8080"`
	JWTSecret          string        `envconfig:"JWT_SECRET" required:"true"`
	AdminIDs           []string      `envconfig:"ADMIN_IDS"`
	AMQPURL            string        `envconfig:"AMQP_URL"`
	AMQPExchange       string        `envconfig:"AMQP_EXCHANGE" default:"bookcircle.notifications"`
	CatalogEnabled     bool          `envconfig:"CATALOG_ENABLED" default:"true"`
	CatalogTimeout     time.Duration `envconfig:"CATALOG_TIMEOUT" default:"10s"`
	NotifyTimeout      time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"5s"`
	RetryMaxAttempts   int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"6"`
	RetryBaseDelay     time.Duration `envconfig:"RETRY_BASE_DELAY" default:"10ms"`
	OTLPEndpoint       string        `envconfig:"OTLP_ENDPOINT"`
	ContextualLogger   string        `envconfig:"CONTEXTUAL_LOGGER" default:"bridge"`
	ServiceName        string        `envconfig:"SERVICE_NAME" default:"bookcircle"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads the configuration from the environment. Variables already set win over the env files,
// and env files that do not exist are skipped.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrLoadingEnvFileFailed, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the settings that depend on each other.
func (c Config) Validate() error {
	if !slices.Contains([]string{StorageMemory, StoragePostgres}, c.Storage) {
		return invalid("storage must be memory or postgres")
	}

	if c.Storage == StoragePostgres && c.PostgresDSN == "" {
		return invalid("postgres storage needs a DSN")
	}

	if !slices.Contains([]string{DriverPGX, DriverSQL, DriverSQLX}, c.PostgresDriver) {
		return invalid("postgres driver must be pgx, sql or sqlx")
	}

	if c.PostgresReplicaDSN != "" && c.PostgresDriver != DriverPGX {
		return invalid("a replica is only supported with the pgx driver")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return invalid("jwt secret must not be empty")
	}

	if !slices.Contains([]string{ContextualLoggerBridge, ContextualLoggerOTel}, c.ContextualLogger) {
		return invalid("contextual logger must be bridge or otel")
	}

	if c.RetryMaxAttempts <= 0 {
		return invalid("retry max attempts must be positive")
	}

	if _, err := c.SlogLevel(); err != nil {
		return invalid("unknown log level " + c.LogLevel)
	}

	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))

	return level, err
}

func invalid(reason string) error {
	return errors.Join(ErrInvalidConfig, errors.New(reason))
}
