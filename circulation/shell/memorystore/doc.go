// Package memorystore is the in-process implementation of the circulation storage contracts.
//
// Each unit of work reads a private copy of one item's consistency unit and commits it back
// under the store mutex, after checking that the item version did not move in between.
// Ledger movements are handed to a memoryengine.Ledger on commit.
package memorystore
