// Package circulationstats provides the community statistics: how many approved members and
// items there are, how many transfers happened, and which items and readers circulate most.
//
// Transfers are read from the movement ledger with eventual consistency, so a transfer that was
// just confirmed may show up with a small delay. Items that were removed from the registry keep
// counting towards the totals of their readers and show up without a title.
package circulationstats
