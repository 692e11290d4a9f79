package db

import (
	"context"
	"time"
)

// Store is the search backend facade combining all sub-interfaces.
type Store interface {
	Pinger
	Searcher
	DocumentStore
	IndexManager
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher runs full-text queries with highlighting.
type Searcher interface {
	SearchHighlighted(ctx context.Context, q *HighlightQuery) (*SearchResult, error)
}

// DocumentGetter fetches a single stored document source.
type DocumentGetter interface {
	// GetDocument returns the document source, nested or flattened with dotted keys
	// depending on the backend. Missing documents yield ErrKeyNotFound.
	GetDocument(ctx context.Context, index, objectType, id string) (map[string]any, error)
}

// DocumentWriter stores a document source.
type DocumentWriter interface {
	PutDocument(ctx context.Context, index, objectType, id string, source map[string]any) error
}

// DocumentStore combines document reads and writes.
type DocumentStore interface {
	DocumentGetter
	DocumentWriter
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}
