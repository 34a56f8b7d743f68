package itemhistory

import (
	"github.com/google/uuid"
)

const (
	queryType = "ItemHistory"
)

// Query represents the input for the movement history of one item.
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
