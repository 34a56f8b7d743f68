// Package confirmtransfer implements the Confirm Transfer use case: the custodian records that
// the item changed hands. It completes the recipient's pending request and removes the recipient
// from the waitlist.
package confirmtransfer
