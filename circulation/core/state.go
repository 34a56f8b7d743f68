package core

// State is the circulation state of an item, derived from the item and its pending bookings.
type State int

const (
	StateOnShelf State = iota
	StateRequestPending
	StateHeld
	StateRecallPending
)

// String returns the state name used in logs and API responses.
func (s State) String() string {
	switch s {
	case StateOnShelf:
		return "on_shelf"
	case StateRequestPending:
		return "request_pending"
	case StateHeld:
		return "held"
	case StateRecallPending:
		return "recall_pending"
	default:
		return "unknown"
	}
}

// StateOf derives the state. A holder wins over pending bookings.
func StateOf(item Item, bookings []BookingRequest) State {
	switch {
	case item.HasHolder() && item.RecallRequested:
		return StateRecallPending
	case item.HasHolder():
		return StateHeld
	}

	for _, b := range bookings {
		if b.IsPending() {
			return StateRequestPending
		}
	}

	return StateOnShelf
}
