package circulationstats

import (
	"cmp"
	"slices"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

// Project implements the statistics. It is a pure function.
//
// Query Logic:
//
//	GIVEN: All transfer movements, all members and all items currently in the registry
//	WHEN: CirculationStats query is executed
//	THEN: CirculationStats is returned
//	INCLUDES: Top items by transfer count and top readers by received transfers, ties broken by id
//	EXCLUDES: Return movements, which are not counted as transfers
//	EXCLUDES: Removed items from the top items; their transfers still count in the total
func Project(
	movements ledger.StorableMovements,
	members []core.Member,
	items []core.Item,
	query Query,
	maxSequence uint,
) CirculationStats {

	titles := make(map[core.ItemIDString]string, len(items))
	for _, item := range items {
		titles[item.ID] = item.Metadata.Title
	}

	names := make(map[core.MemberIDString]string, len(members))
	approved := 0

	for _, member := range members {
		names[member.ID] = member.DisplayName
		if member.IsApproved() {
			approved++
		}
	}

	transfersPerItem := make(map[core.ItemIDString]int)
	receivedPerReader := make(map[core.MemberIDString]int)
	transfers := 0

	for _, m := range movements {
		if m.Kind != ledger.KindTransfer {
			continue
		}

		transfers++
		transfersPerItem[m.ItemID]++
		receivedPerReader[m.ToMemberID]++
	}

	topItems := make([]ItemRank, 0, len(transfersPerItem))
	for itemID, count := range transfersPerItem {
		title, inRegistry := titles[itemID]
		if !inRegistry {
			continue
		}

		topItems = append(topItems, ItemRank{ItemID: itemID, Title: title, Transfers: count})
	}

	slices.SortFunc(topItems, func(a, b ItemRank) int {
		return cmp.Or(cmp.Compare(b.Transfers, a.Transfers), cmp.Compare(a.ItemID, b.ItemID))
	})

	topReaders := make([]ReaderRank, 0, len(receivedPerReader))
	for memberID, count := range receivedPerReader {
		topReaders = append(topReaders, ReaderRank{MemberID: memberID, DisplayName: names[memberID], Received: count})
	}

	slices.SortFunc(topReaders, func(a, b ReaderRank) int {
		return cmp.Or(cmp.Compare(b.Received, a.Received), cmp.Compare(a.MemberID, b.MemberID))
	})

	topN := query.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	return CirculationStats{
		ApprovedMembers: approved,
		Items:           len(items),
		Transfers:       transfers,
		TopItems:        topItems[:min(topN, len(topItems))],
		TopReaders:      topReaders[:min(topN, len(topReaders))],
		SequenceNumber:  maxSequence,
	}
}

// BuildMovementFilter creates the filter for the transfer movements this query counts.
func BuildMovementFilter() ledger.Filter {
	return ledger.BuildFilter().
		OfKinds(ledger.KindTransfer).
		Finalize()
}
