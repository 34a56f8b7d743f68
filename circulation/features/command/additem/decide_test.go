package additem_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/additem"
	. "github.com/AntonStoeckl/bookcircle/testutil/circulation/fixtures" //nolint:revive
)

func Test_Decide_Success_WhenItemIsNew(t *testing.T) {
	// arrange
	ownerID := uuid.New()
	command := additem.BuildCommand(ownerID, core.ItemMetadata{
		Title:     "  Kindred ",
		Tags:      []string{"SciFi", " classic", "scifi"},
		AgeRating: "16+",
	}, FixedTime)

	// act
	result := additem.Decide(GivenNoItem().Snapshot(), command)

	// assert
	require.True(t, result.HasEventToApply())
	event, ok := result.Event.(core.ItemAdded)
	require.True(t, ok)
	assert.Equal(t, command.ItemID.String(), event.ItemID)
	assert.Equal(t, ownerID.String(), event.OwnerID)
	assert.Equal(t, "Kindred", event.Metadata.Title)
	assert.Equal(t, []string{"scifi", "classic"}, event.Metadata.Tags)
}

func Test_Decide_Idempotent_WhenSameOwnerAddsAgain(t *testing.T) {
	itemID, ownerID := uuid.New(), uuid.New()
	command := additem.BuildCommandForItem(itemID, ownerID, core.ItemMetadata{Title: "Kindred"}, FixedTime)

	result := additem.Decide(GivenItemOnShelf(itemID, ownerID).Snapshot(), command)

	assert.True(t, result.IsIdempotent())
	assert.NoError(t, result.HasError())
}

func Test_Decide_BusinessErrors(t *testing.T) {
	itemID, ownerID := uuid.New(), uuid.New()

	testCases := []struct {
		name     string
		snapshot core.ItemSnapshot
		metadata core.ItemMetadata
	}{
		{"id belongs to another owner", GivenItemOnShelf(itemID, uuid.New()).Snapshot(), core.ItemMetadata{Title: "Kindred"}},
		{"empty title", GivenNoItem().Snapshot(), core.ItemMetadata{Title: "   "}},
		{"unknown age rating", GivenNoItem().Snapshot(), core.ItemMetadata{Title: "Kindred", AgeRating: "21+"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := additem.Decide(tc.snapshot, additem.BuildCommandForItem(itemID, ownerID, tc.metadata, FixedTime))

			assert.ErrorIs(t, result.HasError(), core.ErrInvalidInput)
			assert.False(t, result.HasEventToApply())
		})
	}
}
