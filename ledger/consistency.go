package ledger

import "context"

// ConsistencyLevel defines the consistency requirements for ledger reads.
type ConsistencyLevel int

const (
	// StrongConsistency requires reads from the primary database.
	// This is the default, command handlers must see their own writes.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica database.
	// Statistics and history views use it, they tolerate slightly stale data.
	EventualConsistency
)

// contextKey is a private type to prevent context key collisions.
type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "ledger.consistency_level"

// WithStrongConsistency returns a context that signals ledger reads must hit the primary database.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that signals ledger reads may be served by a replica.
//
// Example usage:
//
//	ctx = ledger.WithEventualConsistency(ctx)
//	movements, maxSeq, err := store.Query(ctx, filter)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context.
// If no consistency level is set, it returns StrongConsistency.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String provides a string representation of ConsistencyLevel for logging.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
