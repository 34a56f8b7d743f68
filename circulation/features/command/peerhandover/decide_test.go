package peerhandover_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/peerhandover"
	. "github.com/AntonStoeckl/bookcircle/testutil/circulation/fixtures" //nolint:revive
)

func Test_Decide_Success_HolderHandsOver_To_WaitlistHead(t *testing.T) {
	// arrange
	itemID, ownerID, holderID, headID, secondID := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	snapshot := GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).WithWaitlist(headID, secondID).Snapshot()

	// act
	result := peerhandover.Decide(snapshot, peerhandover.BuildCommand(itemID, holderID, headID, FixedTime))

	// assert
	require.True(t, result.HasEventToApply())
	event, ok := result.Event.(core.TransferConfirmed)
	require.True(t, ok)
	assert.Equal(t, holderID.String(), event.FromMemberID)
	assert.Equal(t, headID.String(), event.ToMemberID)
	assert.Equal(t, ownerID.String(), event.OwnerID)
	assert.True(t, event.IsHandover)
}

func Test_Decide_BusinessErrors(t *testing.T) {
	itemID, ownerID, holderID, otherID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	testCases := []struct {
		name      string
		snapshot  core.ItemSnapshot
		caller    uuid.UUID
		recipient uuid.UUID
		expected  error
	}{
		{"item does not exist", GivenNoItem().Snapshot(), holderID, otherID, core.ErrNoSuchItem},
		{"item on shelf", GivenItemOnShelf(itemID, ownerID).Snapshot(), ownerID, otherID, core.ErrInvalidTransition},
		{"caller is not the holder", GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).Snapshot(), otherID, uuid.New(), core.ErrNotCustodian},
		{"owner is not the holder", GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).Snapshot(), ownerID, otherID, core.ErrNotCustodian},
		{"recall pending", GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).Recalled().Snapshot(), holderID, otherID, core.ErrInvalidTransition},
		{"recipient is the owner", GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).Snapshot(), holderID, ownerID, core.ErrInvalidTransition},
		{"recipient is the holder", GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).Snapshot(), holderID, holderID, core.ErrInvalidTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := peerhandover.Decide(tc.snapshot, peerhandover.BuildCommand(itemID, tc.caller, tc.recipient, FixedTime))

			assert.ErrorIs(t, result.HasError(), tc.expected)
		})
	}
}
