package shell

import (
	"context"
	"sync"
	"time"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	defaultNotifyTimeout      = 5 * time.Second
	logMsgNotificationFailed  = "notification delivery failed"
	logMsgNotificationSkipped = "notification skipped, no notifier configured"
	logAttrRecipient          = "recipient_id"
	logAttrTopic              = "topic"
	logAttrItemID             = "item_id"
)

// NotificationDispatcher delivers notifications after commit: fire, log, forget.
// Each notification runs in its own goroutine, detached from the caller's cancellation.
// Failures are logged and dropped.
type NotificationDispatcher struct {
	notifier         Notifier
	timeout          time.Duration
	logger           Logger
	contextualLogger ContextualLogger
	wg               sync.WaitGroup
}

// DispatcherOption configures a NotificationDispatcher.
type DispatcherOption func(*NotificationDispatcher)

// WithNotifyTimeout bounds each delivery.
func WithNotifyTimeout(timeout time.Duration) DispatcherOption {
	return func(d *NotificationDispatcher) {
		d.timeout = timeout
	}
}

// WithDispatcherLogging sets the loggers used to report delivery failures.
func WithDispatcherLogging(logger Logger, contextualLogger ContextualLogger) DispatcherOption {
	return func(d *NotificationDispatcher) {
		d.logger = logger
		d.contextualLogger = contextualLogger
	}
}

// NewNotificationDispatcher creates a dispatcher. A nil notifier makes Dispatch log and drop.
func NewNotificationDispatcher(notifier Notifier, opts ...DispatcherOption) *NotificationDispatcher {
	d := &NotificationDispatcher{
		notifier: notifier,
		timeout:  defaultNotifyTimeout,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch hands the notifications to the notifier without waiting.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, notifications []core.Notification) {
	if d == nil {
		return
	}

	detached := context.WithoutCancel(ctx)

	for _, n := range notifications {
		if d.notifier == nil {
			d.log(detached, logMsgNotificationSkipped, n, nil)
			continue
		}

		d.wg.Add(1)

		go func(n core.Notification) {
			defer d.wg.Done()

			notifyCtx, cancel := context.WithTimeout(detached, d.timeout)
			defer cancel()

			if err := d.notifier.Notify(notifyCtx, n); err != nil {
				d.log(notifyCtx, logMsgNotificationFailed, n, err)
			}
		}(n)
	}
}

// Wait blocks until all started deliveries are finished. Used on shutdown and in tests.
func (d *NotificationDispatcher) Wait() {
	if d == nil {
		return
	}

	d.wg.Wait()
}

func (d *NotificationDispatcher) log(ctx context.Context, msg string, n core.Notification, err error) {
	args := []any{
		logAttrRecipient, n.RecipientID,
		logAttrTopic, string(n.Topic),
		logAttrItemID, n.ItemID,
	}

	if err != nil {
		args = append(args, LogAttrError, err.Error())
	}

	if d.contextualLogger != nil {
		d.contextualLogger.WarnContext(ctx, msg, args...)
	}

	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
