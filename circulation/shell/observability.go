package shell

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

const (
	CommandHandlerDurationMetric          = "circulation_command_duration_seconds"
	CommandHandlerCallsMetric             = "circulation_command_calls_total"
	CommandHandlerIdempotentMetric        = "circulation_command_idempotent_total"
	CommandHandlerRejectedMetric          = "circulation_command_rejected_total"
	CommandHandlerNotificationsMetric     = "circulation_notifications_dispatched_total"
	CommandHandlerRetriesMetric           = "circulation_command_retries_total"
	CommandHandlerRetryDelayMetric        = "circulation_command_retry_delay_seconds"
	CommandHandlerMaxRetriesReachedMetric = "circulation_command_max_retries_reached_total"
	QueryHandlerDurationMetric            = "circulation_query_duration_seconds"
	QueryHandlerCallsMetric               = "circulation_query_calls_total"
)

const (
	StatusSuccess             = "success"
	StatusError               = "error"
	StatusIdempotent          = "idempotent"
	StatusRejected            = "rejected"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "conflict"
)

const (
	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandRejected  = "command handler rejected the command"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryStarted     = "query handler started"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryFailed      = "query handler failed"

	LogAttrCommandType = "command_type"
	LogAttrQueryType   = "query_type"
	LogAttrStatus      = "status"
	LogAttrDurationMS  = "duration_ms"
	LogAttrError       = "error"
	LogAttrEventType   = "event_type"

	SpanNameCommandPrefix = "circulation.command."
	SpanNameQueryPrefix   = "circulation.query."
	SpanAttrCommandType   = "command.type"
	SpanAttrQueryType     = "query.type"
	SpanAttrDurationMS    = "duration_ms"
	SpanAttrErrorMessage  = "error.message"
)

// BuildCommandLabels builds the metric labels of a command handler call.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels builds the metric labels of a query handler call.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// BuildRetryLabels builds the labels of a retry metric.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		"attempt_number":   fmt.Sprintf("%d", attemptNumber),
		"error_type":       errorType,
	}
}

// ToMilliseconds converts a duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// CommandStatusOf classifies the outcome of a command for metrics, spans and logs.
func CommandStatusOf(result HandlerResult, err error) string {
	switch {
	case err == nil && result.Idempotent:
		return StatusIdempotent
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case IsConcurrencyConflictError(err):
		return StatusConcurrencyConflict
	case IsRejection(err):
		return StatusRejected
	default:
		return StatusError
	}
}

// RecordCommandMetrics records calls and duration of a command handler, plus the outcome counters.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	duration time.Duration,
) {

	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	incrementCounter(ctx, collector, CommandHandlerCallsMetric, labels)
	recordDuration(ctx, collector, CommandHandlerDurationMetric, duration, labels)

	switch status {
	case StatusIdempotent:
		incrementCounter(ctx, collector, CommandHandlerIdempotentMetric, labels)
	case StatusRejected:
		incrementCounter(ctx, collector, CommandHandlerRejectedMetric, labels)
	}
}

// RecordNotificationMetrics records how many notifications a command produced.
func RecordNotificationMetrics(ctx context.Context, collector MetricsCollector, commandType string, count int) {
	if collector == nil || count == 0 {
		return
	}

	labels := map[string]string{LogAttrCommandType: commandType}

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, CommandHandlerNotificationsMetric, float64(count), labels)
		return
	}

	collector.RecordValue(CommandHandlerNotificationsMetric, float64(count), labels)
}

// RecordQueryMetrics records calls and duration of a query handler.
func RecordQueryMetrics(
	ctx context.Context,
	collector MetricsCollector,
	queryType string,
	status string,
	duration time.Duration,
) {

	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	incrementCounter(ctx, collector, QueryHandlerCallsMetric, labels)
	recordDuration(ctx, collector, QueryHandlerDurationMetric, duration, labels)
}

func incrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

func recordDuration(
	ctx context.Context,
	collector MetricsCollector,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

// StartCommandSpan starts a span for a command if tracing is configured.
func StartCommandSpan(ctx context.Context, collector TracingCollector, commandType string) (context.Context, SpanContext) {
	if collector == nil {
		return ctx, nil
	}

	return collector.StartSpan(ctx, SpanNameCommandPrefix+commandType, map[string]string{
		SpanAttrCommandType: commandType,
	})
}

// StartQuerySpan starts a span for a query if tracing is configured.
func StartQuerySpan(ctx context.Context, collector TracingCollector, queryType string) (context.Context, SpanContext) {
	if collector == nil {
		return ctx, nil
	}

	return collector.StartSpan(ctx, SpanNameQueryPrefix+queryType, map[string]string{
		SpanAttrQueryType: queryType,
	})
}

// FinishSpan finishes a command or query span with its status.
func FinishSpan(collector TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if collector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		SpanAttrDurationMS: formatDurationMS(duration),
	}

	if err != nil {
		attrs[SpanAttrErrorMessage] = err.Error()
	}

	collector.FinishSpan(span, status, attrs)
}

// LogCommandStart logs the start of a command at debug level.
func LogCommandStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, commandType string) {
	logDebug(ctx, logger, contextualLogger, LogMsgCommandStarted, LogAttrCommandType, commandType)
}

// LogCommandOutcome logs a finished command. Rejections go to info, failures to error level.
func LogCommandOutcome(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	status string,
	duration time.Duration,
	err error,
) {

	args := []any{
		LogAttrCommandType, commandType,
		LogAttrStatus, status,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	switch {
	case err == nil:
		logInfo(ctx, logger, contextualLogger, LogMsgCommandCompleted, args...)
	case status == StatusRejected:
		logInfo(ctx, logger, contextualLogger, LogMsgCommandRejected, append(args, LogAttrError, err.Error())...)
	default:
		logError(ctx, logger, contextualLogger, LogMsgCommandFailed, append(args, LogAttrError, err.Error())...)
	}
}

// LogQueryOutcome logs a finished query.
func LogQueryOutcome(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	queryType string,
	duration time.Duration,
	err error,
) {

	args := []any{
		LogAttrQueryType, queryType,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if err != nil {
		logError(ctx, logger, contextualLogger, LogMsgQueryFailed, append(args, LogAttrError, err.Error())...)
		return
	}

	logInfo(ctx, logger, contextualLogger, LogMsgQueryCompleted, args...)
}

func logDebug(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.DebugContext(ctx, msg, args...)
	}

	if logger != nil {
		logger.Debug(msg, args...)
	}
}

func logInfo(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	}

	if logger != nil {
		logger.Info(msg, args...)
	}
}

func logError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, msg, args...)
	}

	if logger != nil {
		logger.Error(msg, args...)
	}
}

func formatDurationMS(duration time.Duration) string {
	return fmt.Sprintf("%.2f", ToMilliseconds(duration))
}

// IsCancellationError checks if the error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if the error is due to an exceeded deadline.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConcurrencyConflictError checks if retries were exhausted on an optimistic concurrency conflict.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, ledger.ErrConcurrencyConflict)
}

// IsRejection tells whether err is a business rule rejection rather than an infrastructure failure.
func IsRejection(err error) bool {
	return IsDomainError(err) && !errors.Is(err, core.ErrStorageUnavailable)
}
