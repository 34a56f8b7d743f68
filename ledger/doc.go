// Package ledger provides the abstractions of the movement ledger: an append-only
// record of custody changes (transfers and returns) of circulating items.
//
// This package defines the types shared by all ledger engines: the storable movement DTO,
// the query filter, consistency levels, observability interfaces and common errors.
// Records are never updated or deleted. The ledger is the only source of circulation
// history and of aggregate statistics.
//
// Common usage pattern:
//
//	filter := ledger.BuildFilter().
//		ForItems(itemID.String()).
//		OfKinds(ledger.KindTransfer, ledger.KindReturn).
//		Finalize()
//
//	movements, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	movement, err := ledger.BuildStorableMovementWithEmptyMetadata(ledger.KindTransfer, itemID, from, to, time.Now())
//	err = store.Append(ctx, movement)
package ledger
