package itemhistory

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/bookcircle/circulation/shell"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

var ErrCorruptMetadata = errors.New("movement metadata could not be decoded")

// Project turns the movements of one item into history entries, keeping ledger order.
func Project(movements ledger.StorableMovements, query Query, maxSequence uint) (ItemHistory, error) {
	entries := make([]Entry, 0, len(movements))

	for _, m := range movements {
		var metadata shell.MovementMetadata
		if len(m.MetadataJSON) > 0 {
			if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(m.MetadataJSON, &metadata); err != nil {
				return ItemHistory{}, errors.Join(ErrCorruptMetadata, err)
			}
		}

		entries = append(entries, Entry{
			Kind:           string(m.Kind),
			FromMemberID:   m.FromMemberID,
			ToMemberID:     m.ToMemberID,
			OccurredAt:     m.OccurredAt,
			BookingID:      metadata.BookingID,
			IsHandover:     metadata.IsHandover,
			SequenceNumber: m.SequenceNumber,
		})
	}

	return ItemHistory{
		ItemID:         query.ItemID.String(),
		Entries:        entries,
		Count:          len(entries),
		SequenceNumber: maxSequence,
	}, nil
}

// BuildMovementFilter creates the filter for all movements of the queried item.
func BuildMovementFilter(query Query) ledger.Filter {
	return ledger.BuildFilter().
		ForItems(query.ItemID.String()).
		Finalize()
}
