package core

// ItemSnapshot is everything a Decide function may look at: the item and its two satellite
// collections, loaded inside one per-item scope.
type ItemSnapshot struct {
	ItemExists      bool
	Item            Item
	Waitlist        []WaitlistEntry
	PendingBookings []BookingRequest
}

// State derives the circulation state of the snapshot.
func (s ItemSnapshot) State() State {
	return StateOf(s.Item, s.PendingBookings)
}

// WaitlistHead returns the first entry, if any.
func (s ItemSnapshot) WaitlistHead() (WaitlistEntry, bool) {
	if len(s.Waitlist) == 0 {
		return WaitlistEntry{}, false
	}

	return s.Waitlist[0], true
}

// IsQueued tells whether the member has a waitlist entry.
func (s ItemSnapshot) IsQueued(memberID MemberIDString) bool {
	for _, e := range s.Waitlist {
		if e.MemberID == memberID {
			return true
		}
	}

	return false
}

// PendingBookingOf returns the pending booking of a requester, if any.
func (s ItemSnapshot) PendingBookingOf(requesterID MemberIDString) (BookingRequest, bool) {
	for _, b := range s.PendingBookings {
		if b.IsPending() && b.RequesterID == requesterID {
			return b, true
		}
	}

	return BookingRequest{}, false
}

// NextCandidateAfter returns the waitlist head once the given member is removed from the queue.
func (s ItemSnapshot) NextCandidateAfter(removed MemberIDString) MemberIDString {
	for _, e := range s.Waitlist {
		if e.MemberID != removed {
			return e.MemberID
		}
	}

	return ""
}
