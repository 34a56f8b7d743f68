// Package removeitem implements the Remove Item use case.
//
// The owner, or an admin, takes an item out of the registry while nobody holds it. Its waitlist
// and bookings are dropped with it; the movement ledger keeps its history.
package removeitem
