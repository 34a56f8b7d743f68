package postgresengine

import (
	"github.com/AntonStoeckl/bookcircle/ledger"
)

// Option defines a functional option for configuring the Ledger.
type Option func(*Ledger) error

// WithTableName sets the movement table name.
func WithTableName(tableName string) Option {
	return func(l *Ledger) error {
		if tableName == "" {
			return ledger.ErrEmptyTableNameSupplied
		}

		l.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the Ledger.
//
// Debug level: SQL statements with execution timing
// Info level: movement counts and durations
// Warn level: cleanup failures
// Error level: failures that abort the operation.
func WithLogger(logger ledger.Logger) Option {
	return func(l *Ledger) error {
		l.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger, used instead of the plain logger when present.
func WithContextualLogger(logger ledger.ContextualLogger) Option {
	return func(l *Ledger) error {
		l.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for query/append durations, counts and database errors.
func WithMetrics(collector ledger.MetricsCollector) Option {
	return func(l *Ledger) error {
		l.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector; query and append each get their own span.
func WithTracing(collector ledger.TracingCollector) Option {
	return func(l *Ledger) error {
		l.tracingCollector = collector
		return nil
	}
}
