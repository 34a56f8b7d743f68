package peerhandover

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "PeerHandover"
)

// Command represents the holder passing the item directly to another member.
type Command struct {
	ItemID      uuid.UUID
	HolderID    uuid.UUID
	RecipientID uuid.UUID
	OccurredAt  core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID, holderID, recipientID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ItemID:      itemID,
		HolderID:    holderID,
		RecipientID: recipientID,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
