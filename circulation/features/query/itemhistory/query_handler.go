package itemhistory

import (
	"context"

	"github.com/AntonStoeckl/bookcircle/ledger"
)

// QueryHandler reads the ledger and delegates to Project.
type QueryHandler struct {
	movements ledger.Querier
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(movements ledger.Querier) QueryHandler {
	return QueryHandler{movements: movements}
}

// Handle executes the query. An item without movements has an empty history, whether it exists or not.
func (h QueryHandler) Handle(ctx context.Context, query Query) (ItemHistory, error) {
	ctx = ledger.WithEventualConsistency(ctx)

	movements, maxSequence, err := h.movements.Query(ctx, BuildMovementFilter(query))
	if err != nil {
		return ItemHistory{}, err
	}

	return Project(movements, query, maxSequence)
}
