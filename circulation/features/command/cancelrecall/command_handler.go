package cancelrecall

import (
	"context"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

// CommandHandler runs Decide inside the serialized scope of the item.
type CommandHandler struct {
	runner shell.ItemRunner
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(runner shell.ItemRunner) CommandHandler {
	return CommandHandler{runner: runner}
}

// Handle executes the command.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	return h.runner.Run(ctx, command.ItemID.String(), func(snapshot core.ItemSnapshot) core.DecisionResult {
		return Decide(snapshot, command)
	})
}
