package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/bookcircle/ledger"
)

func Test_FilterBuilder_SanitizesInput(t *testing.T) {
	// act
	filter := ledger.BuildFilter().
		ForItems("b", "", "a", "b").
		OfKinds(ledger.KindReturn, ledger.KindTransfer, ledger.KindReturn).
		ReceivedBy("m2", "m1").
		Finalize()

	// assert
	assert.Equal(t, []string{"a", "b"}, filter.ItemIDs())
	assert.Equal(t, []ledger.MovementKind{ledger.KindReturn, ledger.KindTransfer}, filter.Kinds())
	assert.Equal(t, []string{"m1", "m2"}, filter.ToMemberIDs())
	assert.Empty(t, filter.FromMemberIDs())
	assert.True(t, filter.OccurredFrom().IsZero())
	assert.True(t, filter.OccurredUntil().IsZero())
}

func Test_FilterBuilder_IsImmutablePerStep(t *testing.T) {
	// arrange
	base := ledger.BuildFilter().ForItems("a")

	// act
	withB := base.ForItems("b").Finalize()
	withC := base.ForItems("c").Finalize()

	// assert
	assert.Equal(t, []string{"a", "b"}, withB.ItemIDs())
	assert.Equal(t, []string{"a", "c"}, withC.ItemIDs())
}

func Test_Filter_Matches(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	movement := ledger.StorableMovement{
		Kind:           ledger.KindTransfer,
		ItemID:         "item-1",
		FromMemberID:   "owner",
		ToMemberID:     "reader",
		OccurredAt:     now,
		SequenceNumber: 7,
	}

	testCases := []struct {
		name    string
		filter  ledger.Filter
		matches bool
	}{
		{"empty filter", ledger.BuildFilter().Finalize(), true},
		{"same item", ledger.BuildFilter().ForItems("item-1").Finalize(), true},
		{"other item", ledger.BuildFilter().ForItems("item-2").Finalize(), false},
		{"other kind", ledger.BuildFilter().OfKinds(ledger.KindReturn).Finalize(), false},
		{"given by owner", ledger.BuildFilter().GivenBy("owner").Finalize(), true},
		{"received by someone else", ledger.BuildFilter().ReceivedBy("owner").Finalize(), false},
		{"inside time range", ledger.BuildFilter().OccurredFrom(now).OccurredUntil(now).Finalize(), true},
		{"before range", ledger.BuildFilter().OccurredFrom(now.Add(time.Second)).Finalize(), false},
		{"after range", ledger.BuildFilter().OccurredUntil(now.Add(-time.Second)).Finalize(), false},
		{"sequence already seen", ledger.BuildFilter().WithSequenceNumberHigherThan(7).Finalize(), false},
		{"sequence not yet seen", ledger.BuildFilter().WithSequenceNumberHigherThan(6).Finalize(), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.matches, tc.filter.Matches(movement))
		})
	}
}
