package itemoverview

import (
	"github.com/google/uuid"
)

const (
	queryType = "ItemOverview"
)

// Query represents the input for the overview of one item.
type Query struct {
	ItemID uuid.UUID
}

// BuildQuery creates a new Query.
func BuildQuery(itemID uuid.UUID) Query {
	return Query{ItemID: itemID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
