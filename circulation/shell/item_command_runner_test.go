package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/ledger"
	"github.com/AntonStoeckl/bookcircle/testutil/circulation/spies"
)

func givenHeldItem() core.Item {
	return core.Item{
		ID:         "item-1",
		OwnerID:    "owner-1",
		HolderID:   "holder-1",
		Metadata:   core.ItemMetadata{Title: "Dune"},
		Visibility: core.VisibilityListed,
		Version:    3,
	}
}

func recallDecision(snapshot core.ItemSnapshot) core.DecisionResult {
	if snapshot.Item.RecallRequested {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildRecallRequested(
		snapshot.Item.ID, snapshot.Item.OwnerID, snapshot.Item.HolderID, time.Now()))
}

func Test_ItemCommandRunner_Applies_Event_And_Notifies(t *testing.T) {
	// arrange
	store := newFakeStore(givenHeldItem())
	notifier := &spyNotifier{}
	dispatcher := NewNotificationDispatcher(notifier)
	runner := NewItemCommandRunner(store, WithDispatcher(dispatcher))

	// act
	result, err := runner.Run(context.Background(), "item-1", recallDecision)
	dispatcher.Wait()

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, core.RecallRequestedEventType, result.Event.IsEventType())
	assert.True(t, store.item.RecallRequested)
	assert.Equal(t, uint(4), store.item.Version)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, "holder-1", result.Notifications[0].RecipientID)
	assert.Equal(t, "Dune", result.Notifications[0].ItemTitle)
	assert.Equal(t, []core.NotificationTopic{core.TopicRecallRequested}, notifier.topics())
}

func Test_ItemCommandRunner_Reports_Idempotent_Without_Writing(t *testing.T) {
	// arrange
	item := givenHeldItem()
	item.RecallRequested = true
	store := newFakeStore(item)
	runner := NewItemCommandRunner(store)

	// act
	result, err := runner.Run(context.Background(), "item-1", recallDecision)

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Nil(t, result.Event)
	assert.Equal(t, uint(3), store.item.Version)
}

func Test_ItemCommandRunner_Returns_DecisionErrors_Unchanged(t *testing.T) {
	// arrange
	store := newFakeStore(givenHeldItem())
	runner := NewItemCommandRunner(store)
	rejection := core.Reject(core.ErrNotOwner, "only the owner can do that")

	// act
	_, err := runner.Run(context.Background(), "item-1", func(core.ItemSnapshot) core.DecisionResult {
		return core.ErrorDecision(rejection)
	})

	// assert
	assert.ErrorIs(t, err, core.ErrNotOwner)
	assert.NotErrorIs(t, err, core.ErrStorageUnavailable)
	assert.Equal(t, 1, store.scopes)
	assert.Equal(t, uint(3), store.item.Version)
}

func Test_ItemCommandRunner_Retries_ConcurrencyConflicts(t *testing.T) {
	// arrange
	store := newFakeStore(givenHeldItem())
	store.conflictsAhead = 2
	runner := NewItemCommandRunner(store, WithRetryOptions(WithBaseDelay(time.Millisecond)))

	// act
	result, err := runner.Run(context.Background(), "item-1", recallDecision)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.RetryAttempts)
	assert.Equal(t, 3, store.scopes)
	assert.True(t, store.item.RecallRequested)
}

func Test_ItemCommandRunner_Stops_When_Canceled_While_Waiting_For_The_Lock(t *testing.T) {
	// arrange
	store := newFakeStore(givenHeldItem())
	locks := NewKeyedLocks()
	runner := NewItemCommandRunner(store, WithItemLocks(locks))
	ctx, cancel := context.WithCancel(context.Background())

	unlock := locks.Lock("item-1")
	done := make(chan error, 1)

	// act
	go func() {
		_, err := runner.Run(ctx, "item-1", recallDecision)
		done <- err
	}()

	require.Eventually(t, func() bool { return waitersOn(locks, "item-1") == 1 }, time.Second, time.Millisecond)
	cancel()
	unlock()

	// assert
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.scopes)
	assert.False(t, store.item.RecallRequested)
}

func waitersOn(locks *KeyedLocks, key string) int {
	locks.mu.Lock()
	defer locks.mu.Unlock()

	lock, ok := locks.locks[key]
	if !ok {
		return 0
	}

	return lock.refs - 1
}

func Test_ItemCommandRunner_Surfaces_ExhaustedConflicts_As_StorageUnavailable(t *testing.T) {
	// arrange
	store := newFakeStore(givenHeldItem())
	store.conflictsAhead = 10
	runner := NewItemCommandRunner(store, WithRetryOptions(WithMaxAttempts(2), WithBaseDelay(time.Millisecond)))

	// act
	result, err := runner.Run(context.Background(), "item-1", recallDecision)

	// assert
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.ErrorIs(t, err, ledger.ErrConcurrencyConflict)
	assert.True(t, result.RetriesExhausted)
	assert.False(t, store.item.RecallRequested)
}

func Test_ItemCommandRunner_Records_Return_Movement_And_Surfaces_NextCandidate(t *testing.T) {
	// arrange
	store := newFakeStore(givenHeldItem())
	store.entries = []core.WaitlistEntry{{ItemID: "item-1", MemberID: "reader-2", JoinedAt: time.Now(), Position: 1}}
	runner := NewItemCommandRunner(store)

	// act
	result, err := runner.Run(context.Background(), "item-1", func(s core.ItemSnapshot) core.DecisionResult {
		head, _ := s.WaitlistHead()
		return core.SuccessDecision(core.BuildReturnConfirmed(s.Item.ID, s.Item.OwnerID, s.Item.HolderID, head.MemberID, time.Now()))
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "reader-2", result.NextCandidateID)
	assert.Empty(t, store.item.HolderID)

	movements, _, err := store.ledger.Query(context.Background(), ledger.BuildFilter().ForItems("item-1").Finalize())
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, ledger.KindReturn, movements[0].Kind)
	assert.Equal(t, "holder-1", movements[0].FromMemberID)
	assert.Equal(t, "owner-1", movements[0].ToMemberID)
}

func Test_NotificationDispatcher_Logs_And_Drops_Failures(t *testing.T) {
	// arrange
	notifier := &spyNotifier{err: errors.New("chat unreachable")}
	logger := spies.NewLoggerSpy()
	dispatcher := NewNotificationDispatcher(notifier, WithDispatcherLogging(logger, nil), WithNotifyTimeout(time.Second))

	// act
	dispatcher.Dispatch(context.Background(), []core.Notification{
		{RecipientID: "a", Topic: core.TopicYourTurn},
		{RecipientID: "b", Topic: core.TopicRecallRequested},
	})
	dispatcher.Wait()

	// assert
	assert.Len(t, notifier.topics(), 2)
	assert.Equal(t, []string{logMsgNotificationFailed, logMsgNotificationFailed}, logger.Messages(spies.LevelWarn))
}

func Test_NotificationDispatcher_Survives_CanceledCallerContext(t *testing.T) {
	// arrange
	notifier := &spyNotifier{}
	dispatcher := NewNotificationDispatcher(notifier)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	dispatcher.Dispatch(ctx, []core.Notification{{RecipientID: "a", Topic: core.TopicYourTurn}})
	dispatcher.Wait()

	// assert
	assert.Equal(t, []core.NotificationTopic{core.TopicYourTurn}, notifier.topics())
}

func Test_NotificationDispatcher_Without_Notifier_Logs_Skips(t *testing.T) {
	logger := spies.NewLoggerSpy()
	dispatcher := NewNotificationDispatcher(nil, WithDispatcherLogging(logger, nil))

	dispatcher.Dispatch(context.Background(), []core.Notification{{RecipientID: "a", Topic: core.TopicYourTurn}})
	dispatcher.Wait()

	assert.Equal(t, []string{logMsgNotificationSkipped}, logger.Messages(spies.LevelWarn))
}

func Test_NotificationDispatcher_NilReceiver_IsNoop(t *testing.T) {
	var dispatcher *NotificationDispatcher

	assert.NotPanics(t, func() {
		dispatcher.Dispatch(context.Background(), []core.Notification{{RecipientID: "a"}})
		dispatcher.Wait()
	})
}
