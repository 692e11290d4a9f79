package domain

import "fmt"

// Default field layout, matching documents shaped as {"doc": {"text": ...}, "metadata": {...}}.
const (
	DefaultObjectType     = "_doc"
	DefaultTextField      = "doc.text"
	DefaultHighlightField = "doc.text"
	DefaultMetadataKey    = "metadata"
	DefaultResultSize     = 10
	MaxResultSize         = 1000
)

// QueryType selects how query text is matched against the highlight field.
type QueryType string

// Query types.
const (
	// QueryTerm matches the query text as a single unanalyzed term.
	QueryTerm QueryType = "term"
	// QueryMatch analyzes the query text like the field.
	QueryMatch QueryType = "match"
)

// ParseQueryType validates a query type name; empty selects QueryTerm.
func ParseQueryType(s string) (QueryType, error) {
	switch QueryType(s) {
	case "", QueryTerm:
		return QueryTerm, nil
	case QueryMatch:
		return QueryMatch, nil
	default:
		return "", fmt.Errorf("unknown query type %q: %w", s, ErrInvalidArgument)
	}
}

// Repository describes how one external document repository is laid out in the backend.
// It is read-only configuration owned by the host application.
type Repository struct {
	IndexName      string
	ObjectType     string
	TextField      string // dotted path of the full document text
	HighlightField string // dotted path the backend highlights
	MetadataKey    string // top-level key of the metadata mapping
	ResultSize     int
	RandomOrder    bool
	QueryType      QueryType
}

// DefaultRepository returns the default layout for an index.
func DefaultRepository(indexName string) Repository {
	return Repository{
		IndexName:      indexName,
		ObjectType:     DefaultObjectType,
		TextField:      DefaultTextField,
		HighlightField: DefaultHighlightField,
		MetadataKey:    DefaultMetadataKey,
		ResultSize:     DefaultResultSize,
		QueryType:      QueryTerm,
	}
}

// WithDefaults fills empty fields of r with the default layout.
func (r Repository) WithDefaults() Repository {
	d := DefaultRepository(r.IndexName)
	if r.ObjectType == "" {
		r.ObjectType = d.ObjectType
	}
	if r.TextField == "" {
		r.TextField = d.TextField
	}
	if r.HighlightField == "" {
		r.HighlightField = d.HighlightField
	}
	if r.MetadataKey == "" {
		r.MetadataKey = d.MetadataKey
	}
	if r.ResultSize <= 0 {
		r.ResultSize = d.ResultSize
	}
	if r.ResultSize > MaxResultSize {
		r.ResultSize = MaxResultSize
	}
	if r.QueryType == "" {
		r.QueryType = d.QueryType
	}
	return r
}
