package changevisibility

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "ChangeVisibility"
)

// Command represents the intent of an owner to list or unlist an item.
type Command struct {
	ItemID     uuid.UUID
	OwnerID    uuid.UUID
	Visibility core.Visibility
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(itemID uuid.UUID, ownerID uuid.UUID, visibility core.Visibility, occurredAt time.Time) Command {
	return Command{
		ItemID:     itemID,
		OwnerID:    ownerID,
		Visibility: visibility,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
