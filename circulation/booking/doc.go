// Package booking tracks the request, confirm and reject workflow that gates a transfer from an owner.
package booking
