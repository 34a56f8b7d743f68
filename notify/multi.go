package notify

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

// Multi delivers to every notifier in order and joins their errors.
type Multi []shell.Notifier

// Notify delivers to all notifiers, also after one of them failed.
func (m Multi) Notify(ctx context.Context, notification core.Notification) error {
	var errs []error

	for _, notifier := range m {
		if err := notifier.Notify(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
