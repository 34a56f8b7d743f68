package ledger

import (
	"slices"
	"time"
)

/***** Filter *****/

// Filter selects movements. All non-empty criteria must match (AND); the values inside one
// criterion are alternatives (OR). The zero Filter matches every movement.
type Filter struct {
	itemIDs                  []string
	kinds                    []MovementKind
	fromMemberIDs            []string
	toMemberIDs              []string
	occurredFrom             time.Time
	occurredUntil            time.Time
	sequenceNumberHigherThan uint
}

func (f Filter) ItemIDs() []string {
	return f.itemIDs
}

func (f Filter) Kinds() []MovementKind {
	return f.kinds
}

func (f Filter) FromMemberIDs() []string {
	return f.fromMemberIDs
}

func (f Filter) ToMemberIDs() []string {
	return f.toMemberIDs
}

func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

func (f Filter) SequenceNumberHigherThan() uint {
	return f.sequenceNumberHigherThan
}

// Matches evaluates the filter against one movement. Engines without a query language use it.
func (f Filter) Matches(m StorableMovement) bool {
	if len(f.itemIDs) > 0 && !slices.Contains(f.itemIDs, m.ItemID) {
		return false
	}

	if len(f.kinds) > 0 && !slices.Contains(f.kinds, m.Kind) {
		return false
	}

	if len(f.fromMemberIDs) > 0 && !slices.Contains(f.fromMemberIDs, m.FromMemberID) {
		return false
	}

	if len(f.toMemberIDs) > 0 && !slices.Contains(f.toMemberIDs, m.ToMemberID) {
		return false
	}

	if !f.occurredFrom.IsZero() && m.OccurredAt.Before(f.occurredFrom) {
		return false
	}

	if !f.occurredUntil.IsZero() && m.OccurredAt.After(f.occurredUntil) {
		return false
	}

	return m.SequenceNumber > f.sequenceNumberHigherThan
}

/***** FilterBuilder *****/

// FilterBuilder builds a Filter to be translated by the engine specific query builders.
//
// Every method sanitizes its input:
//   - removing empty values ("")
//   - sorting the values
//   - removing duplicate values
type FilterBuilder struct {
	filter Filter
}

// BuildFilter creates a FilterBuilder which must eventually be finalized with Finalize.
func BuildFilter() FilterBuilder {
	return FilterBuilder{}
}

// ForItems restricts the filter to movements of any of the given items.
func (fb FilterBuilder) ForItems(itemIDs ...string) FilterBuilder {
	fb.filter.itemIDs = sanitize(append(slices.Clone(fb.filter.itemIDs), itemIDs...))

	return fb
}

// OfKinds restricts the filter to any of the given movement kinds.
func (fb FilterBuilder) OfKinds(kinds ...MovementKind) FilterBuilder {
	fb.filter.kinds = sanitize(append(slices.Clone(fb.filter.kinds), kinds...))

	return fb
}

// GivenBy restricts the filter to movements relinquished by any of the given members.
func (fb FilterBuilder) GivenBy(memberIDs ...string) FilterBuilder {
	fb.filter.fromMemberIDs = sanitize(append(slices.Clone(fb.filter.fromMemberIDs), memberIDs...))

	return fb
}

// ReceivedBy restricts the filter to movements received by any of the given members.
func (fb FilterBuilder) ReceivedBy(memberIDs ...string) FilterBuilder {
	fb.filter.toMemberIDs = sanitize(append(slices.Clone(fb.filter.toMemberIDs), memberIDs...))

	return fb
}

// OccurredFrom sets the inclusive lower time bound.
func (fb FilterBuilder) OccurredFrom(t time.Time) FilterBuilder {
	fb.filter.occurredFrom = t

	return fb
}

// OccurredUntil sets the inclusive upper time bound.
func (fb FilterBuilder) OccurredUntil(t time.Time) FilterBuilder {
	fb.filter.occurredUntil = t

	return fb
}

// WithSequenceNumberHigherThan only selects movements appended after the given sequence number.
func (fb FilterBuilder) WithSequenceNumberHigherThan(sequenceNumber uint) FilterBuilder {
	fb.filter.sequenceNumberHigherThan = sequenceNumber

	return fb
}

// Finalize returns the Filter.
func (fb FilterBuilder) Finalize() Filter {
	return fb.filter
}

func sanitize[T ~string](values []T) []T {
	values = slices.DeleteFunc(values, func(v T) bool { return v == "" })
	slices.Sort(values)
	values = slices.Compact(values)

	return slices.Clip(values)
}
