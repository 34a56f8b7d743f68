package shell

import (
	"time"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

// HandlerResult is what a command handler reports besides its error.
type HandlerResult struct {
	// Idempotent means the command found its goal already reached and wrote nothing.
	Idempotent bool

	// Event is the applied domain event, nil for idempotent and failed commands.
	Event core.DomainEvent

	// NextCandidateID is the waitlist head surfaced by ConfirmReturn or Skip.
	NextCandidateID core.MemberIDString

	// Notifications were handed to the dispatcher after commit.
	Notifications []core.Notification

	RetryAttempts    int
	TotalRetryDelay  time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

func newResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// NewSuccessResult creates a HandlerResult for an applied event.
func NewSuccessResult(retryMetrics RetryMetrics, event core.DomainEvent, notifications []core.Notification) HandlerResult {
	result := newResult(retryMetrics)
	result.Event = event
	result.Notifications = notifications
	result.NextCandidateID = nextCandidateOf(event)

	return result
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	result := newResult(retryMetrics)
	result.Idempotent = true

	return result
}

// NewErrorResult creates a HandlerResult for failed operations, keeping the retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return newResult(retryMetrics)
}

func nextCandidateOf(event core.DomainEvent) core.MemberIDString {
	switch e := event.(type) {
	case core.ReturnConfirmed:
		return e.NextCandidateID
	case core.TurnSkipped:
		return e.NextCandidateID
	default:
		return ""
	}
}
