package notify

import (
	"context"
	"log/slog"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	logMsgNotification = "notification"
)

// LogNotifier logs every notification at info level. It never fails.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogNotifier{logger: logger}
}

// Notify logs the notification.
func (n *LogNotifier) Notify(ctx context.Context, notification core.Notification) error {
	n.logger.InfoContext(ctx, logMsgNotification,
		slog.String("recipient_id", notification.RecipientID),
		slog.String("topic", string(notification.Topic)),
		slog.String("item_id", notification.ItemID),
		slog.String("item_title", notification.ItemTitle),
		slog.String("actor_id", notification.ActorID),
		slog.Time("occurred_at", notification.OccurredAt),
	)

	return nil
}
