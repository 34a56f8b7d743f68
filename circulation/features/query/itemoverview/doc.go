// Package itemoverview shows one item as its members see it: the item, its circulation state,
// the waitlist in order and the open requests.
package itemoverview
