package confirmtransfer_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/confirmtransfer"
	. "github.com/AntonStoeckl/bookcircle/testutil/circulation/fixtures" //nolint:revive
)

func Test_Decide_Success_OwnerConfirms_PendingRequest(t *testing.T) {
	// arrange
	itemID, ownerID, requesterID, bookingID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	snapshot := GivenItemOnShelf(itemID, ownerID).WithPendingBooking(bookingID, requesterID).Snapshot()

	// act
	result := confirmtransfer.Decide(snapshot, confirmtransfer.BuildCommand(itemID, ownerID, requesterID, FixedTime))

	// assert
	event := assertTransfer(t, result)
	assert.Equal(t, ownerID.String(), event.FromMemberID)
	assert.Equal(t, requesterID.String(), event.ToMemberID)
	assert.Equal(t, bookingID.String(), event.BookingID)
	assert.False(t, event.IsHandover)
}

func Test_Decide_Success_WithoutBooking(t *testing.T) {
	itemID, ownerID, recipientID := uuid.New(), uuid.New(), uuid.New()
	snapshot := GivenItemOnShelf(itemID, ownerID).Snapshot()

	result := confirmtransfer.Decide(snapshot, confirmtransfer.BuildCommand(itemID, ownerID, recipientID, FixedTime))

	event := assertTransfer(t, result)
	assert.Empty(t, event.BookingID)
}

func Test_Decide_Success_HolderHandsOver(t *testing.T) {
	itemID, ownerID, holderID, nextID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	snapshot := GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).WithWaitlist(nextID).Snapshot()

	result := confirmtransfer.Decide(snapshot, confirmtransfer.BuildCommand(itemID, holderID, nextID, FixedTime))

	event := assertTransfer(t, result)
	assert.Equal(t, holderID.String(), event.FromMemberID)
	assert.True(t, event.IsHandover)
}

func Test_Decide_BusinessErrors(t *testing.T) {
	itemID, ownerID, holderID, otherID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	testCases := []struct {
		name      string
		snapshot  core.ItemSnapshot
		grantor   uuid.UUID
		recipient uuid.UUID
		expected  error
	}{
		{"item does not exist", GivenNoItem().Snapshot(), ownerID, otherID, core.ErrNoSuchItem},
		{"grantor is not the owner", GivenItemOnShelf(itemID, ownerID).Snapshot(), holderID, otherID, core.ErrNotCustodian},
		{"owner grants while held", GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).Snapshot(), ownerID, otherID, core.ErrNotCustodian},
		{"recipient is the owner", GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).Snapshot(), holderID, ownerID, core.ErrInvalidTransition},
		{"recipient is the custodian", GivenItemOnShelf(itemID, ownerID).Snapshot(), ownerID, ownerID, core.ErrInvalidTransition},
		{"handover during recall", GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).Recalled().Snapshot(), holderID, otherID, core.ErrInvalidTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := confirmtransfer.Decide(tc.snapshot, confirmtransfer.BuildCommand(itemID, tc.grantor, tc.recipient, FixedTime))

			assert.ErrorIs(t, result.HasError(), tc.expected)
			assert.False(t, result.HasEventToApply())
		})
	}
}

func assertTransfer(t *testing.T, result core.DecisionResult) core.TransferConfirmed {
	t.Helper()

	require.True(t, result.HasEventToApply())
	event, ok := result.Event.(core.TransferConfirmed)
	require.True(t, ok)

	return event
}
