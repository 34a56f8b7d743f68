package additem

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "AddItem"
)

// Command represents the intent of an owner to add an item to the registry.
// ItemID is generated when the command is built, so that retries target the same item.
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

// BuildCommand creates a new Command for a fresh item with normalized metadata.
func BuildCommand(ownerID uuid.UUID, metadata core.ItemMetadata, occurredAt time.Time) Command {
	return BuildCommandForItem(uuid.New(), ownerID, metadata, occurredAt)
}

// BuildCommandForItem creates a new Command with a caller-chosen item id.
func BuildCommandForItem(itemID uuid.UUID, ownerID uuid.UUID, metadata core.ItemMetadata, occurredAt time.Time) Command {
	return Command{
		ItemID:     itemID,
		OwnerID:    ownerID,
		Metadata:   metadata.Normalized(),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
