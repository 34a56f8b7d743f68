package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/bookcircle/ledger"
	"github.com/AntonStoeckl/bookcircle/testutil/circulation/spies"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RetryOnConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return ledger.ErrConcurrencyConflict
		}
		return nil
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_DoesNotRetry_OtherErrors(t *testing.T) {
	ctx := context.Background()
	callCount := 0
	failure := errors.New("disk on fire")

	fn := func(_ context.Context) error {
		callCount++
		return failure
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn)

	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "other", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_Exhausts_And_Records_Metrics(t *testing.T) {
	ctx := context.Background()
	metrics := spies.NewMetricsCollectorSpy()

	fn := func(_ context.Context) error {
		return ledger.ErrConcurrencyConflict
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0),
		WithRetryMetrics(metrics, "RequestItem"),
	)

	assert.ErrorIs(t, err, ledger.ErrConcurrencyConflict)
	assert.Equal(t, 3, meta.Attempts)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, "concurrency_conflict", meta.LastErrorType)
	assert.Equal(t, 2, metrics.Count(CommandHandlerRetriesMetric))
	assert.Equal(t, 2, metrics.Count(CommandHandlerRetryDelayMetric))
	assert.Equal(t, 1, metrics.Count(CommandHandlerMaxRetriesReachedMetric))
}

func Test_RetryWithExponentialBackoff_Stops_OnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fn := func(_ context.Context) error {
		cancel()
		return ledger.ErrConcurrencyConflict
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Second))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	fn := func(_ context.Context) error { return nil }

	_, err := RetryWithExponentialBackoff(ctx, fn, WithMaxAttempts(0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(-1*time.Second))
	assert.ErrorIs(t, err, ErrNegativeBaseDelay)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithJitterFactor(1.5))
	assert.ErrorIs(t, err, ErrInvalidJitterFactor)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithRetryMetrics(nil, "RequestItem"))
	assert.ErrorIs(t, err, ErrNilMetricsCollector)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithRetryMetrics(spies.NewMetricsCollectorSpy(), ""))
	assert.ErrorIs(t, err, ErrEmptyCommandType)
}
