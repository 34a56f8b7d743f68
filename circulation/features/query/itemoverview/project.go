package itemoverview

import (
	"github.com/AntonStoeckl/bookcircle/circulation/core"
)

// Project derives the overview from the item and its satellite collections.
// Positions are renumbered from 1 in waitlist order.
func Project(item core.Item, entries []core.WaitlistEntry, pending []core.BookingRequest) ItemOverview {
	waitlist := make([]core.WaitlistEntry, len(entries))
	for i, entry := range entries {
		entry.Position = uint(i + 1)
		waitlist[i] = entry
	}

	return ItemOverview{
		Item:            item,
		State:           core.StateOf(item, pending),
		Waitlist:        waitlist,
		PendingBookings: pending,
	}
}
