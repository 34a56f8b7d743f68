// Package fixtures builds item snapshots for Decide tests.
//
// Fixtures start from an item on the shelf and are refined step by step:
//
//	snapshot := fixtures.GivenItemOnShelf(itemID, ownerID).
//		HeldBy(holderID).
//		WithWaitlist(memberA, memberB).
//		Snapshot()
package fixtures
