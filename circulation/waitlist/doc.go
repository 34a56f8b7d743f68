// Package waitlist is the per-item FIFO queue of members waiting for an item.
//
// The rule functions are pure and shared with the Decide functions of the command features.
// Manager applies the same rules against a Repository that lives inside one per-item scope.
package waitlist
