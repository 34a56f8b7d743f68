package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

// CommandWrapper instruments any command handler and delegates the work to it.
type CommandWrapper[C shell.Command] struct {
	coreHandler      shell.CoreCommandHandler[C]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandWrapper creates a CommandWrapper. The command type is taken from the zero value of C.
func NewCommandWrapper[C shell.Command](
	coreHandler shell.CoreCommandHandler[C],
	opts ...CommandOption[C],
) (*CommandWrapper[C], error) {

	var zeroCommand C

	wrapper := &CommandWrapper[C]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle runs the wrapped handler and records its outcome.
func (w *CommandWrapper[C]) Handle(ctx context.Context, command C) (shell.HandlerResult, error) {
	start := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType)
	shell.LogCommandStart(ctx, w.logger, w.contextualLogger, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)

	duration := time.Since(start)
	status := shell.CommandStatusOf(result, err)

	w.recordRetryMetrics(ctx, result)
	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration)
	shell.RecordNotificationMetrics(ctx, w.metricsCollector, w.commandType, len(result.Notifications))
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)
	shell.LogCommandOutcome(ctx, w.logger, w.contextualLogger, w.commandType, status, duration, err)

	return result, err
}

// CommandType returns the instrumented command type.
func (w *CommandWrapper[C]) CommandType() string {
	return w.commandType
}

// CommandOption configures a CommandWrapper.
type CommandOption[C shell.Command] func(*CommandWrapper[C]) error

// WithCommandMetrics sets the metrics collector.
func WithCommandMetrics[C shell.Command](collector shell.MetricsCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithCommandTracing sets the tracing collector.
func WithCommandTracing[C shell.Command](collector shell.TracingCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithCommandContextualLogging sets the contextual logger.
func WithCommandContextualLogging[C shell.Command](logger shell.ContextualLogger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithCommandLogging sets the basic logger.
func WithCommandLogging[C shell.Command](logger shell.Logger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.logger = logger
		return nil
	}
}

func (w *CommandWrapper[C]) recordRetryMetrics(ctx context.Context, result shell.HandlerResult) {
	if w.metricsCollector == nil {
		return
	}

	contextual, isContextual := w.metricsCollector.(shell.ContextualMetricsCollector)

	if result.RetryAttempts > 1 {
		retryLabels := shell.BuildRetryLabels(w.commandType, result.RetryAttempts-1, result.LastErrorType)
		delayLabels := map[string]string{shell.LogAttrCommandType: w.commandType}

		if isContextual {
			contextual.IncrementCounterContext(ctx, shell.CommandHandlerRetriesMetric, retryLabels)
			contextual.RecordDurationContext(ctx, shell.CommandHandlerRetryDelayMetric, result.TotalRetryDelay, delayLabels)
		} else {
			w.metricsCollector.IncrementCounter(shell.CommandHandlerRetriesMetric, retryLabels)
			w.metricsCollector.RecordDuration(shell.CommandHandlerRetryDelayMetric, result.TotalRetryDelay, delayLabels)
		}
	}

	if result.RetriesExhausted {
		labels := map[string]string{shell.LogAttrCommandType: w.commandType}

		if isContextual {
			contextual.IncrementCounterContext(ctx, shell.CommandHandlerMaxRetriesReachedMetric, labels)
		} else {
			w.metricsCollector.IncrementCounter(shell.CommandHandlerMaxRetriesReachedMetric, labels)
		}
	}
}
