package waitlist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/waitlist"
)

func Test_Join_Appends_InFIFOOrder(t *testing.T) {
	// arrange
	ctx := context.Background()
	manager := waitlist.NewManager(newFakeRepository())
	item := givenItem()
	now := time.Now()

	// act
	_, err3 := manager.Join(ctx, item, "u3", now)
	_, err4 := manager.Join(ctx, item, "u4", now)
	_, err5 := manager.Join(ctx, item, "u5", now.Add(-time.Minute))

	// assert
	require.NoError(t, err3)
	require.NoError(t, err4)
	require.NoError(t, err5)

	entries, err := manager.All(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u5", "u3", "u4"}, memberIDs(entries))
	assertNonDecreasingJoinTimes(t, entries)
}

func Test_Join_Rejects_Owner_Holder_And_Duplicates(t *testing.T) {
	ctx := context.Background()
	manager := waitlist.NewManager(newFakeRepository())
	item := givenItem()

	_, err := manager.Join(ctx, item, "u1", time.Now())
	assert.ErrorIs(t, err, core.ErrInvalidJoin)

	_, err = manager.Join(ctx, item, "u2", time.Now())
	assert.ErrorIs(t, err, core.ErrInvalidJoin)

	_, err = manager.Join(ctx, item, "u3", time.Now())
	require.NoError(t, err)

	_, err = manager.Join(ctx, item, "u3", time.Now())
	assert.ErrorIs(t, err, core.ErrAlreadyQueued)
}

func Test_Leave_IsIdempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	manager := waitlist.NewManager(newFakeRepository())
	item := givenItem()
	_, err := manager.Join(ctx, item, "u3", time.Now())
	require.NoError(t, err)

	// act
	firstErr := manager.Leave(ctx, item.ID, "u3")
	entriesAfterFirst, _ := manager.All(ctx, item.ID)
	secondErr := manager.Leave(ctx, item.ID, "u3")
	entriesAfterSecond, _ := manager.All(ctx, item.ID)

	// assert
	assert.NoError(t, firstErr)
	assert.NoError(t, secondErr)
	assert.Empty(t, entriesAfterFirst)
	assert.Equal(t, entriesAfterFirst, entriesAfterSecond)
}

func Test_Peek_Returns_Head(t *testing.T) {
	ctx := context.Background()
	manager := waitlist.NewManager(newFakeRepository())
	item := givenItem()

	_, found, err := manager.Peek(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, found)

	_, _ = manager.Join(ctx, item, "u3", time.Now())
	_, _ = manager.Join(ctx, item, "u4", time.Now())

	head, found, err := manager.Peek(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "u3", head.MemberID)
}

func Test_Advance_Requires_Head_And_Surfaces_Next(t *testing.T) {
	// arrange
	ctx := context.Background()
	manager := waitlist.NewManager(newFakeRepository())
	item := givenItem()
	_, _ = manager.Join(ctx, item, "u3", time.Now())
	_, _ = manager.Join(ctx, item, "u4", time.Now())

	// act
	_, _, notHeadErr := manager.Advance(ctx, item.ID, "u4")
	next, hasNext, err := manager.Advance(ctx, item.ID, "u3")

	// assert
	assert.ErrorIs(t, notHeadErr, core.ErrInvalidTransition)
	require.NoError(t, err)
	assert.True(t, hasNext)
	assert.Equal(t, "u4", next.MemberID)

	_, hasNext, err = manager.Advance(ctx, item.ID, "u4")
	require.NoError(t, err)
	assert.False(t, hasNext)
}

func Test_Manager_Propagates_RepositoryErrors(t *testing.T) {
	repo := newFakeRepository()
	repo.err = errors.New("io failure")
	manager := waitlist.NewManager(repo)

	_, err := manager.Join(context.Background(), givenItem(), "u3", time.Now())

	assert.ErrorIs(t, err, repo.err)
}

func Test_PositionOf(t *testing.T) {
	entries := []core.WaitlistEntry{{MemberID: "u3"}, {MemberID: "u4"}}

	assert.Equal(t, 1, waitlist.PositionOf(entries, "u3"))
	assert.Equal(t, 2, waitlist.PositionOf(entries, "u4"))
	assert.Equal(t, 0, waitlist.PositionOf(entries, "u9"))
}

func givenItem() core.Item {
	return core.Item{ID: "item-1", OwnerID: "u1", HolderID: "u2"}
}

func memberIDs(entries []core.WaitlistEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MemberID)
	}

	return ids
}

func assertNonDecreasingJoinTimes(t *testing.T, entries []core.WaitlistEntry) {
	t.Helper()

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].JoinedAt.Before(entries[i-1].JoinedAt), "entry %d joined before entry %d", i, i-1)
	}
}

type fakeRepository struct {
	entries  []core.WaitlistEntry
	position uint
	err      error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{}
}

func (r *fakeRepository) Entries(_ context.Context, itemID core.ItemIDString) ([]core.WaitlistEntry, error) {
	if r.err != nil {
		return nil, r.err
	}

	var result []core.WaitlistEntry
	for _, e := range r.entries {
		if e.ItemID == itemID {
			result = append(result, e)
		}
	}

	return result, nil
}

func (r *fakeRepository) Append(_ context.Context, entry core.WaitlistEntry) (core.WaitlistEntry, error) {
	r.position++
	entry.Position = r.position
	r.entries = append(r.entries, entry)

	return entry, nil
}

func (r *fakeRepository) Remove(_ context.Context, itemID core.ItemIDString, memberID core.MemberIDString) (bool, error) {
	for i, e := range r.entries {
		if e.ItemID == itemID && e.MemberID == memberID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}
