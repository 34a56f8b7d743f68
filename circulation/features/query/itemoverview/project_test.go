package itemoverview_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/query/itemoverview"
)

func Test_Project_Derives_State_And_Positions(t *testing.T) {
	at := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		item     core.Item
		pending  []core.BookingRequest
		expected core.State
	}{
		{"on shelf", core.Item{ID: "i-1", OwnerID: "o"}, nil, core.StateOnShelf},
		{"request pending", core.Item{ID: "i-1", OwnerID: "o"}, []core.BookingRequest{{ID: "b", RequesterID: "r", Status: core.BookingPending}}, core.StateRequestPending},
		{"held", core.Item{ID: "i-1", OwnerID: "o", HolderID: "h"}, nil, core.StateHeld},
		{"recall pending", core.Item{ID: "i-1", OwnerID: "o", HolderID: "h", RecallRequested: true}, nil, core.StateRecallPending},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entries := []core.WaitlistEntry{
				{ItemID: "i-1", MemberID: "a", JoinedAt: at, Position: 4},
				{ItemID: "i-1", MemberID: "b", JoinedAt: at.Add(time.Minute), Position: 9},
			}

			overview := itemoverview.Project(tc.item, entries, tc.pending)

			assert.Equal(t, tc.expected, overview.State)
			assert.Equal(t, uint(1), overview.Waitlist[0].Position)
			assert.Equal(t, uint(2), overview.Waitlist[1].Position)
			assert.Equal(t, uint(4), entries[0].Position)
		})
	}
}
