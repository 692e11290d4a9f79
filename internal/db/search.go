package db

import "github.com/kailas-cloud/extsearch/internal/domain"

// HighlightQuery is the input for a highlighted full-text search.
type HighlightQuery struct {
	IndexName  string
	ObjectType string
	// Field is the dotted path of the field that is queried and highlighted.
	Field      string
	Query      string
	QueryType  domain.QueryType
	Limit      int
	Randomized bool

	// OpenTag and CloseTag wrap emphasized terms in fragments.
	OpenTag  string
	CloseTag string
	// FragmentSize is the approximate fragment length; zero leaves the backend default.
	FragmentSize int
	// Fragments is the maximum number of fragments per hit; zero leaves the backend default.
	Fragments int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	ID       string
	Score    float64
	HasScore bool
	// Source is the stored document, nested or flattened with dotted keys.
	Source map[string]any
	// Highlights maps a field path to its fragments.
	Highlights map[string][]string
}
