package joinwaitlist_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/joinwaitlist"
	. "github.com/AntonStoeckl/bookcircle/testutil/circulation/fixtures" //nolint:revive
)

func Test_Decide_Success_WhileHeld(t *testing.T) {
	itemID, ownerID, holderID, memberID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	snapshot := GivenItemOnShelf(itemID, ownerID).HeldBy(holderID).Snapshot()

	result := joinwaitlist.Decide(snapshot, joinwaitlist.BuildCommand(itemID, memberID, FixedTime))

	require.True(t, result.HasEventToApply())
	event := result.Event.(core.WaitlistJoined)
	assert.Equal(t, memberID.String(), event.MemberID)
	assert.Equal(t, ownerID.String(), event.OwnerID)
	assert.Equal(t, holderID.String(), event.HolderID)
}

func Test_Decide_BusinessErrors(t *testing.T) {
	itemID, ownerID, holderID, memberID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	held := GivenItemOnShelf(itemID, ownerID).HeldBy(holderID)

	testCases := []struct {
		name     string
		snapshot core.ItemSnapshot
		member   uuid.UUID
		expected error
	}{
		{"item does not exist", GivenNoItem().Snapshot(), memberID, core.ErrNoSuchItem},
		{"owner joins", held.Snapshot(), ownerID, core.ErrInvalidJoin},
		{"holder joins", held.Snapshot(), holderID, core.ErrInvalidJoin},
		{"already queued", held.WithWaitlist(memberID).Snapshot(), memberID, core.ErrAlreadyQueued},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := joinwaitlist.Decide(tc.snapshot, joinwaitlist.BuildCommand(itemID, tc.member, FixedTime))

			assert.ErrorIs(t, result.HasError(), tc.expected)
		})
	}
}
