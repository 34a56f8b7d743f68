// Package joinwaitlist implements queueing for an item.
package joinwaitlist
