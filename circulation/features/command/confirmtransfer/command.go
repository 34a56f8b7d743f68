package confirmtransfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

const (
	commandType = "ConfirmTransfer"
)

// Command represents the custodian confirming that the recipient now has the item.
type Command struct {
	ItemID      uuid.UUID
	GrantorID   uuid.UUID
	RecipientID uuid.UUID
	OccurredAt  core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID, grantorID, recipientID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ItemID:      itemID,
		GrantorID:   grantorID,
		RecipientID: recipientID,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
