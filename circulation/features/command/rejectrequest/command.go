package rejectrequest

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "RejectRequest"
)

// Command represents the owner turning down the pending request of a member.
type Command struct {
	ItemID      uuid.UUID
	OwnerID     uuid.UUID
	RequesterID uuid.UUID
	OccurredAt  core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID, ownerID, requesterID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ItemID:      itemID,
		OwnerID:     ownerID,
		RequesterID: requesterID,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
