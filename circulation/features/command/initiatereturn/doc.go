// Package initiatereturn implements the holder announcing a return.
//
// Returning is split in two steps: the holder announces it, the owner confirms that the item is
// physically back (see confirmreturn). Only the confirmation changes custody and writes the
// ledger, so a mistaken or dishonest announcement cannot corrupt the circulation history.
package initiatereturn
