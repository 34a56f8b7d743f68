package circulationstats

const (
	queryType = "CirculationStats"

	// DefaultTopN is the length of the top lists.
	DefaultTopN = 5
)

// Query represents the input for the community statistics.
type Query struct {
	TopN int
}

// BuildQuery creates a new Query with the default top list length.
func BuildQuery() Query {
	return Query{TopN: DefaultTopN}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
