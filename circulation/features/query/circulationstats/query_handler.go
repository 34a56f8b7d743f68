package circulationstats

import (
	"context"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/ledger"
)

// MemberLister lists all members.
type MemberLister interface {
	ListMembers(ctx context.Context) ([]core.Member, error)
}

// ItemLister lists all items in the registry.
type ItemLister interface {
	ListItems(ctx context.Context) ([]core.Item, error)
}

// QueryHandler reads the ledger and the registry and delegates to Project.
type QueryHandler struct {
	movements ledger.Querier
	members   MemberLister
	items     ItemLister
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(movements ledger.Querier, members MemberLister, items ItemLister) QueryHandler {
	return QueryHandler{
		movements: movements,
		members:   members,
		items:     items,
	}
}

// Handle executes the query: Query -> Project.
// Statistics tolerate stale data, so the ledger is read with eventual consistency.
func (h QueryHandler) Handle(ctx context.Context, query Query) (CirculationStats, error) {
	ctx = ledger.WithEventualConsistency(ctx)

	movements, maxSequence, err := h.movements.Query(ctx, BuildMovementFilter())
	if err != nil {
		return CirculationStats{}, err
	}

	members, err := h.members.ListMembers(ctx)
	if err != nil {
		return CirculationStats{}, err
	}

	items, err := h.items.ListItems(ctx)
	if err != nil {
		return CirculationStats{}, err
	}

	return Project(movements, members, items, query, maxSequence), nil
}
