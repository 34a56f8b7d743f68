package itemoverview

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

// ItemOverview represents the query result. Waitlist positions start at 1.
type ItemOverview struct {
	Item            core.Item
	State           core.State
	Waitlist        []core.WaitlistEntry
	PendingBookings []core.BookingRequest
}
