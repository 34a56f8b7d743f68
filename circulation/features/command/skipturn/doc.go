// Package skipturn lets the member at the head of a waitlist give up the turn.
package skipturn
