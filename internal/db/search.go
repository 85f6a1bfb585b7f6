package db

// SortOrder is the direction of a SORTBY clause.
type SortOrder string

const (
	// SortAsc sorts ascending.
	SortAsc SortOrder = "ASC"
	// SortDesc sorts descending.
	SortDesc SortOrder = "DESC"
)

// SearchQuery is the input for an FT.SEARCH call.
type SearchQuery struct {
	IndexName    string
	Query        string
	SortBy       string // field alias; empty = backend default order
	SortOrder    SortOrder
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
