package joinwaitlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "JoinWaitlist"
)

// Command represents a member queueing for an item.
type Command struct {
	ItemID     uuid.UUID
	MemberID   uuid.UUID
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID, memberID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ItemID:     itemID,
		MemberID:   memberID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
