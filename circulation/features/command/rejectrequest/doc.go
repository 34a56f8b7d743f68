// Package rejectrequest implements the owner rejecting a pending request for an item.
package rejectrequest
