package requestitem

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "RequestItem"
)

// Command represents the intent of a member to receive an item from its owner.
// BookingID is generated when the command is built, so that retries create the same booking.
type Command struct {
	ItemID      uuid.UUID
	RequesterID uuid.UUID
	BookingID   uuid.UUID
	OccurredAt  core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with a fresh booking id.
func BuildCommand(itemID uuid.UUID, requesterID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ItemID:      itemID,
		RequesterID: requesterID,
		BookingID:   uuid.New(),
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
