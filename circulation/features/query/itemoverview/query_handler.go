package itemoverview

import (
	"context"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

const (
	failureReasonItemNotFound = "item does not exist"
)

// QueryHandler reads the item side of the store and delegates to Project.
type QueryHandler struct {
	items shell.ItemReader
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(items shell.ItemReader) QueryHandler {
	return QueryHandler{items: items}
}

// Handle executes the query. Unknown items fail with core.ErrNoSuchItem.
func (h QueryHandler) Handle(ctx context.Context, query Query) (ItemOverview, error) {
	itemID := query.ItemID.String()

	item, found, err := h.items.GetItem(ctx, itemID)
	if err != nil {
		return ItemOverview{}, shell.StorageError(err)
	}

	if !found {
		return ItemOverview{}, core.Reject(core.ErrNoSuchItem, failureReasonItemNotFound)
	}

	entries, err := h.items.WaitlistOf(ctx, itemID)
	if err != nil {
		return ItemOverview{}, shell.StorageError(err)
	}

	pending, err := h.items.PendingBookingsOf(ctx, itemID)
	if err != nil {
		return ItemOverview{}, shell.StorageError(err)
	}

	return Project(item, entries, pending), nil
}
