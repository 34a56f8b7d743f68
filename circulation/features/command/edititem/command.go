package edititem

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "EditItem"
)

// Command represents the intent of an owner to change the metadata of an item.
type Command struct {
	ItemID     uuid.UUID
	OwnerID    uuid.UUID
	Metadata   core.ItemMetadata
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with normalized metadata.
func BuildCommand(itemID uuid.UUID, ownerID uuid.UUID, metadata core.ItemMetadata, occurredAt time.Time) Command {
	return Command{
		ItemID:     itemID,
		OwnerID:    ownerID,
		Metadata:   metadata.Normalized(),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
