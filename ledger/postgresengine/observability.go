package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/bookcircle/ledger"
)

const (
	spanNameQuery          = "ledger.query"
	spanNameAppend         = "ledger.append"
	spanAttrOperation      = "operation"
	spanAttrErrorType      = "error_type"
	spanAttrMovementCount  = "movement_count"
	spanAttrDurationMS     = "duration_ms"
	operationQuery         = "query"
	operationAppend        = "append"
	statusSuccess          = "success"
	statusError            = "error"
	metricLabelStatus      = "status"
	metricQueryDuration    = "ledger_query_duration_seconds"
	metricAppendDuration   = "ledger_append_duration_seconds"
	metricMovementsQueried = "ledger_movements_queried_total"
	metricMovementsWritten = "ledger_movements_appended_total"
	metricDatabaseErrors   = "ledger_database_errors_total"
	errorTypeBuildQuery    = "build_query"
	errorTypeDatabaseQuery = "database_query"
	errorTypeDatabaseExec  = "database_exec"
	errorTypeRowScan       = "row_scan"
	errorTypeRowsAffected  = "rows_affected"
)

// logSQL logs SQL statements with execution time at debug level.
func (l *Ledger) logSQL(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if l.contextualLogger != nil {
		l.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}

	if l.logger != nil {
		l.logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

func (l *Ledger) logOperation(ctx context.Context, action string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}

	if l.logger != nil {
		l.logger.Info(logMsgOperation+action, args...)
	}
}

func (l *Ledger) logWarn(ctx context.Context, message string, args ...any) {
	if l.contextualLogger != nil {
		l.contextualLogger.WarnContext(ctx, message, args...)
	}

	if l.logger != nil {
		l.logger.Warn(message, args...)
	}
}

func (l *Ledger) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{logAttrError, err.Error()}, args...)

	if l.contextualLogger != nil {
		l.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}

	if l.logger != nil {
		l.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (l *Ledger) startSpan(ctx context.Context, name string, operation string) (context.Context, ledger.SpanContext) {
	if l.tracingCollector == nil {
		return ctx, nil
	}

	return l.tracingCollector.StartSpan(ctx, name, map[string]string{spanAttrOperation: operation})
}

func (l *Ledger) finishWithSuccess(
	ctx context.Context,
	span ledger.SpanContext,
	operation string,
	movementCount int,
	duration time.Duration,
) {
	if l.tracingCollector != nil && span != nil {
		span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", toMilliseconds(duration)))
		l.tracingCollector.FinishSpan(span, statusSuccess, map[string]string{
			spanAttrMovementCount: fmt.Sprintf("%d", movementCount),
		})
	}

	labels := map[string]string{spanAttrOperation: operation, metricLabelStatus: statusSuccess}
	l.recordDuration(ctx, durationMetricFor(operation), duration, labels)

	counter := metricMovementsQueried
	if operation == operationAppend {
		counter = metricMovementsWritten
	}

	l.recordValue(ctx, counter, float64(movementCount), labels)
}

func (l *Ledger) finishWithError(
	ctx context.Context,
	span ledger.SpanContext,
	operation string,
	errorType string,
	duration time.Duration,
) {
	if l.tracingCollector != nil && span != nil {
		span.AddAttribute(spanAttrErrorType, errorType)
		l.tracingCollector.FinishSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
	}

	labels := map[string]string{spanAttrOperation: operation, metricLabelStatus: statusError}
	l.recordDuration(ctx, durationMetricFor(operation), duration, labels)

	errorLabels := map[string]string{spanAttrOperation: operation, spanAttrErrorType: errorType}
	if l.metricsCollector == nil {
		return
	}

	if contextual, ok := l.metricsCollector.(ledger.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metricDatabaseErrors, errorLabels)

		return
	}

	l.metricsCollector.IncrementCounter(metricDatabaseErrors, errorLabels)
}

func (l *Ledger) recordDuration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	if l.metricsCollector == nil {
		return
	}

	if contextual, ok := l.metricsCollector.(ledger.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, d, labels)

		return
	}

	l.metricsCollector.RecordDuration(metric, d, labels)
}

func (l *Ledger) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if l.metricsCollector == nil {
		return
	}

	if contextual, ok := l.metricsCollector.(ledger.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)

		return
	}

	l.metricsCollector.RecordValue(metric, value, labels)
}

func durationMetricFor(operation string) string {
	if operation == operationAppend {
		return metricAppendDuration
	}

	return metricQueryDuration
}
