// Package itemhistory lists the custody movements of one item in ledger order.
//
// The history survives the removal of the item from the registry.
package itemhistory
