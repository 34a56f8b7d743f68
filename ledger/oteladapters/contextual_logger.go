// Package oteladapters wires the ledger and circulation observability interfaces to OpenTelemetry.
package oteladapters

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/AntonStoeckl/bookcircle/ledger"
)

// SlogBridgeLogger implements ledger.ContextualLogger on top of the OpenTelemetry slog bridge,
// so log records carry the trace and span IDs found in the context.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

// NewSlogBridgeLogger creates a logger backed by the global OpenTelemetry LoggerProvider.
func NewSlogBridgeLogger(name string) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(name)}
}

// NewSlogBridgeLoggerWithHandler uses the given handler as-is, without trace correlation.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: slog.New(handler)}
}

func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

var _ ledger.ContextualLogger = (*SlogBridgeLogger)(nil)

// OTelLogger implements ledger.ContextualLogger by emitting OpenTelemetry log records directly.
// Attribute types are kept for strings, bools, integers, floats and durations (in seconds).
type OTelLogger struct {
	logger log.Logger
}

// NewOTelLogger emits through the given logger, usually taken from the global LoggerProvider.
func NewOTelLogger(logger log.Logger) *OTelLogger {
	return &OTelLogger{logger: logger}
}

func (l *OTelLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityDebug, msg, args...)
}

func (l *OTelLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityInfo, msg, args...)
}

func (l *OTelLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityWarn, msg, args...)
}

func (l *OTelLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityError, msg, args...)
}

// emit turns slog-style key/value pairs into typed record attributes.
// Pairs with a non-string key and a trailing key without value are dropped.
func (l *OTelLogger) emit(ctx context.Context, severity log.Severity, msg string, args ...any) {
	record := log.Record{}
	record.SetSeverity(severity)
	record.SetSeverityText(severityText(severity))
	record.SetBody(log.StringValue(msg))

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}

		record.AddAttributes(keyValue(key, args[i+1]))
	}

	l.logger.Emit(ctx, record)
}

func keyValue(key string, v any) log.KeyValue {
	switch value := v.(type) {
	case string:
		return log.String(key, value)
	case bool:
		return log.Bool(key, value)
	case int:
		return log.Int(key, value)
	case int64:
		return log.Int64(key, value)
	case uint:
		return log.Int64(key, int64(value))
	case float64:
		return log.Float64(key, value)
	case time.Duration:
		return log.Float64(key, value.Seconds())
	case error:
		return log.String(key, value.Error())
	default:
		return log.String(key, slog.AnyValue(v).String())
	}
}

func severityText(severity log.Severity) string {
	switch severity {
	case log.SeverityDebug:
		return "DEBUG"
	case log.SeverityInfo:
		return "INFO"
	case log.SeverityWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

var _ ledger.ContextualLogger = (*OTelLogger)(nil)
