package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

func Test_StorageError(t *testing.T) {
	driverErr := errors.New("connection refused")

	assert.Nil(t, StorageError(nil))
	assert.ErrorIs(t, StorageError(driverErr), core.ErrStorageUnavailable)
	assert.ErrorIs(t, StorageError(driverErr), driverErr)
	assert.ErrorIs(t, StorageError(ledger.ErrConcurrencyConflict), ledger.ErrConcurrencyConflict)

	rejection := core.Reject(core.ErrInvalidJoin, "owner")
	assert.Same(t, rejection, StorageError(rejection))
}

func Test_CommandStatusOf(t *testing.T) {
	assert.Equal(t, StatusSuccess, CommandStatusOf(HandlerResult{}, nil))
	assert.Equal(t, StatusIdempotent, CommandStatusOf(HandlerResult{Idempotent: true}, nil))
	assert.Equal(t, StatusRejected, CommandStatusOf(HandlerResult{}, core.Reject(core.ErrNotOwner, "x")))
	assert.Equal(t, StatusCanceled, CommandStatusOf(HandlerResult{}, context.Canceled))
	assert.Equal(t, StatusTimeout, CommandStatusOf(HandlerResult{}, context.DeadlineExceeded))
	assert.Equal(t, StatusConcurrencyConflict, CommandStatusOf(HandlerResult{}, StorageError(ledger.ErrConcurrencyConflict)))
	assert.Equal(t, StatusError, CommandStatusOf(HandlerResult{}, StorageError(errors.New("boom"))))
}

func Test_ToMilliseconds(t *testing.T) {
	assert.Equal(t, 1.5, ToMilliseconds(1500*time.Microsecond))
}
