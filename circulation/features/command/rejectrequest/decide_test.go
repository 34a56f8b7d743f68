package rejectrequest_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/rejectrequest"
	. "github.com/AntonStoeckl/bookcircle/testutil/circulation/fixtures" //nolint:revive
)

func Test_Decide_Success_RejectsPendingRequest(t *testing.T) {
	// arrange
	itemID, ownerID, requesterID, bookingID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	snapshot := GivenItemOnShelf(itemID, ownerID).WithPendingBooking(bookingID, requesterID).Snapshot()

	// act
	result := rejectrequest.Decide(snapshot, rejectrequest.BuildCommand(itemID, ownerID, requesterID, FixedTime))

	// assert
	require.True(t, result.HasEventToApply())
	event, ok := result.Event.(core.RequestRejected)
	require.True(t, ok)
	assert.Equal(t, bookingID.String(), event.BookingID)
	assert.Equal(t, requesterID.String(), event.RequesterID)
}

func Test_Decide_BusinessErrors(t *testing.T) {
	itemID, ownerID, requesterID := uuid.New(), uuid.New(), uuid.New()
	withRequest := GivenItemOnShelf(itemID, ownerID).WithPendingBooking(uuid.New(), requesterID).Snapshot()

	testCases := []struct {
		name     string
		snapshot core.ItemSnapshot
		caller   uuid.UUID
		expected error
	}{
		{"item does not exist", GivenNoItem().Snapshot(), ownerID, core.ErrNoSuchItem},
		{"caller is not the owner", withRequest, requesterID, core.ErrNotOwner},
		{"no pending request", GivenItemOnShelf(itemID, ownerID).Snapshot(), ownerID, core.ErrNoSuchRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := rejectrequest.Decide(tc.snapshot, rejectrequest.BuildCommand(itemID, tc.caller, requesterID, FixedTime))

			assert.ErrorIs(t, result.HasError(), tc.expected)
		})
	}
}
