package ledger

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	ErrUnknownMovementKind = errors.New("movement kind is unknown")
	ErrEmptyItemID         = errors.New("movement item id is empty")
	ErrEmptyMemberID       = errors.New("movement member id is empty")
	ErrSelfMovement        = errors.New("movement from and to the same member")
	ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
	emptyMetadataJSON      = []byte("{}")
	movementKindsByName    = map[MovementKind]struct{}{KindTransfer: {}, KindReturn: {}}
)

// MovementKind is the kind of custody change.
type MovementKind string

const (
	// KindTransfer is recorded when custody moves from the owner or a holder to a new holder.
	KindTransfer MovementKind = "transfer"

	// KindReturn is recorded when the holder gives the item back to its owner.
	KindReturn MovementKind = "return"
)

// IsKnown reports whether k is one of the supported movement kinds.
func (k MovementKind) IsKnown() bool {
	_, ok := movementKindsByName[k]
	return ok
}

// StorableMovements is an alias type for a slice of StorableMovement.
type StorableMovements = []StorableMovement

// StorableMovement is the DTO used by ledger engines to append movement records and to query them back.
//
// It is built on scalars so that engines stay agnostic of the domain types of the circulation engine.
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildStorableMovement
//   - BuildStorableMovementWithEmptyMetadata
//
// SequenceNumber is assigned by the engine on append and is zero before that.
type StorableMovement struct {
	Kind           MovementKind
	ItemID         string
	FromMemberID   string
	ToMemberID     string
	OccurredAt     time.Time
	MetadataJSON   []byte
	SequenceNumber uint
}

// BuildStorableMovement is a factory method for StorableMovement.
//
// Returns an error if the kind is unknown, an id is empty, from and to are the same member,
// or metadataJSON is not valid JSON.
func BuildStorableMovement(
	kind MovementKind,
	itemID string,
	fromMemberID string,
	toMemberID string,
	occurredAt time.Time,
	metadataJSON []byte,
) (StorableMovement, error) {

	switch {
	case !kind.IsKnown():
		return StorableMovement{}, ErrUnknownMovementKind
	case itemID == "":
		return StorableMovement{}, ErrEmptyItemID
	case fromMemberID == "" || toMemberID == "":
		return StorableMovement{}, ErrEmptyMemberID
	case fromMemberID == toMemberID:
		return StorableMovement{}, ErrSelfMovement
	case !jsoniter.Valid(metadataJSON):
		return StorableMovement{}, ErrInvalidMetadataJSON
	}

	return StorableMovement{
		Kind:         kind,
		ItemID:       itemID,
		FromMemberID: fromMemberID,
		ToMemberID:   toMemberID,
		OccurredAt:   occurredAt.UTC().Truncate(time.Microsecond),
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableMovementWithEmptyMetadata is like BuildStorableMovement with "{}" as metadata.
func BuildStorableMovementWithEmptyMetadata(
	kind MovementKind,
	itemID string,
	fromMemberID string,
	toMemberID string,
	occurredAt time.Time,
) (StorableMovement, error) {

	return BuildStorableMovement(kind, itemID, fromMemberID, toMemberID, occurredAt, emptyMetadataJSON)
}
