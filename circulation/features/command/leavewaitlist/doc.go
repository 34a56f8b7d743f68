// Package leavewaitlist implements leaving the waitlist of an item.
package leavewaitlist
