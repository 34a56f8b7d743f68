package initiatereturn

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "InitiateReturn"
)

// Command represents the holder announcing that the item is on its way back to the owner.
type Command struct {
	ItemID     uuid.UUID
	HolderID   uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID, holderID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ItemID:     itemID,
		HolderID:   holderID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
