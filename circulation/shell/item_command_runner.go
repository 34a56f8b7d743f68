package shell

import (
	"context"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

// DecideFunc is the pure decision of one command against the snapshot of its item.
type DecideFunc func(snapshot core.ItemSnapshot) core.DecisionResult

// ItemCommandRunner runs the workflow every item command shares:
// lock item -> open unit of work -> load snapshot -> decide -> apply -> commit -> notify.
// Concurrency conflicts re-run the whole unit of work.
type ItemCommandRunner struct {
	store        Store
	locks        *KeyedLocks
	dispatcher   *NotificationDispatcher
	retryOptions []RetryOption
}

// RunnerOption configures an ItemCommandRunner.
type RunnerOption func(*ItemCommandRunner)

// WithDispatcher sets where notifications go after commit.
func WithDispatcher(dispatcher *NotificationDispatcher) RunnerOption {
	return func(r *ItemCommandRunner) {
		r.dispatcher = dispatcher
	}
}

// WithItemLocks shares a lock table between runners. Runners of one process should share one.
func WithItemLocks(locks *KeyedLocks) RunnerOption {
	return func(r *ItemCommandRunner) {
		r.locks = locks
	}
}

// WithRetryOptions sets a custom retry configuration.
func WithRetryOptions(opts ...RetryOption) RunnerOption {
	return func(r *ItemCommandRunner) {
		r.retryOptions = opts
	}
}

// NewItemCommandRunner creates a runner over store.
func NewItemCommandRunner(store Store, opts ...RunnerOption) *ItemCommandRunner {
	r := &ItemCommandRunner{store: store}

	for _, opt := range opts {
		opt(r)
	}

	if r.locks == nil {
		r.locks = NewKeyedLocks()
	}

	return r
}

type runOutcome struct {
	idempotent bool
	before     core.ItemSnapshot
	event      core.DomainEvent
}

// Run executes decide for itemID inside the item's serialized scope.
// Decision errors are returned as they are; storage errors are joined with core.ErrStorageUnavailable.
// Waiting for the item lock ignores ctx. A ctx canceled meanwhile ends Run before any unit of work opens.
func (r *ItemCommandRunner) Run(ctx context.Context, itemID core.ItemIDString, decide DecideFunc) (HandlerResult, error) {
	unlock := r.locks.Lock(itemID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return NewErrorResult(RetryMetrics{LastErrorType: getErrorType(err)}), StorageError(err)
	}

	var outcome runOutcome

	retryMetrics, err := RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		outcome, execErr = r.runOnce(retryCtx, itemID, decide)

		return execErr
	}, r.retryOptions...)

	if err != nil {
		return NewErrorResult(retryMetrics), StorageError(err)
	}

	if outcome.idempotent {
		return NewIdempotentResult(retryMetrics), nil
	}

	notifications := core.NotificationsFor(outcome.before, outcome.event)
	r.dispatcher.Dispatch(ctx, notifications)

	return NewSuccessResult(retryMetrics, outcome.event, notifications), nil
}

func (r *ItemCommandRunner) runOnce(ctx context.Context, itemID core.ItemIDString, decide DecideFunc) (runOutcome, error) {
	var outcome runOutcome

	ctx = ledger.WithStrongConsistency(ctx)

	err := r.store.WithinItem(ctx, itemID, func(ctx context.Context, scope ItemScope) error {
		snapshot, err := LoadSnapshot(ctx, scope)
		if err != nil {
			return StorageError(err)
		}

		result := decide(snapshot)

		if decisionErr := result.HasError(); decisionErr != nil {
			return decisionErr
		}

		if !result.HasEventToApply() {
			outcome = runOutcome{idempotent: true}
			return nil
		}

		if err = Apply(ctx, scope, snapshot, result.Event); err != nil {
			return StorageError(err)
		}

		outcome = runOutcome{before: snapshot, event: result.Event}

		return nil
	})

	if err != nil {
		return runOutcome{}, err
	}

	return outcome, nil
}

var _ ItemRunner = (*ItemCommandRunner)(nil)
