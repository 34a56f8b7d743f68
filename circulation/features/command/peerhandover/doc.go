// Package peerhandover lets the holder pass an item on to the next reader without the owner.
package peerhandover
