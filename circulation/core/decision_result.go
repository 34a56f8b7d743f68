package core

// DecisionResult is the outcome of a Decide function.
//
// Construct it only with IdempotentDecision, SuccessDecision or ErrorDecision.
// A rejected decision carries no event, so nothing is written.
type DecisionResult struct {
	Outcome string // "idempotent", "success" or "error"
	Event   DomainEvent
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision means the desired state is already reached.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision carries the single event to apply.
func SuccessDecision(event DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Event:   event,
	}
}

// ErrorDecision carries the rejection error.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasEventToApply returns true if there is an event to apply.
func (r DecisionResult) HasEventToApply() bool {
	return r.Outcome == successOutcome && r.Event != nil
}

// IsIdempotent returns true for the idempotent outcome.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
