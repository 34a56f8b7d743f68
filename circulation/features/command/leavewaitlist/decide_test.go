package leavewaitlist_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/command/leavewaitlist"
	. "github.com/AntonStoeckl/bookcircle/testutil/circulation/fixtures" //nolint:revive
)

func Test_Decide(t *testing.T) {
	itemID, ownerID, memberID := uuid.New(), uuid.New(), uuid.New()
	command := leavewaitlist.BuildCommand(itemID, memberID, FixedTime)

	queued := GivenItemOnShelf(itemID, ownerID).WithWaitlist(memberID).Snapshot()
	result := leavewaitlist.Decide(queued, command)
	assert.True(t, result.HasEventToApply())
	assert.Equal(t, core.WaitlistLeftEventType, result.Event.IsEventType())

	notQueued := GivenItemOnShelf(itemID, ownerID).Snapshot()
	assert.True(t, leavewaitlist.Decide(notQueued, command).IsIdempotent())

	assert.ErrorIs(t, leavewaitlist.Decide(GivenNoItem().Snapshot(), command).HasError(), core.ErrNoSuchItem)
}
