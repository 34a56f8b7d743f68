package confirmreturn

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "ConfirmReturn"
)

// Command represents the owner confirming that the item is back.
type Command struct {
	ItemID     uuid.UUID
	OwnerID    uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID, ownerID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ItemID:     itemID,
		OwnerID:    ownerID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
