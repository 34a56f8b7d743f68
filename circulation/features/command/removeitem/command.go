package removeitem

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "RemoveItem"
)

// Command represents the intent of the owner or an admin to remove an item.
// ActorIsAdmin is established by the caller from the actor's membership.
type Command struct {
	ItemID       uuid.UUID
	ActorID      uuid.UUID
	ActorIsAdmin bool
	OccurredAt   core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(itemID uuid.UUID, actorID uuid.UUID, actorIsAdmin bool, occurredAt time.Time) Command {
	return Command{
		ItemID:       itemID,
		ActorID:      actorID,
		ActorIsAdmin: actorIsAdmin,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}
