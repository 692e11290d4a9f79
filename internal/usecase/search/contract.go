package search

import (
	"context"

	"github.com/kailas-cloud/extsearch/internal/domain/search/hit"
)

// Repository runs highlighted queries against the external backend.
type Repository interface {
	Query(ctx context.Context, text string, limit int, randomized bool) ([]hit.RawHit, error)
}

// TextFetcher retrieves the full text of a stored document.
type TextFetcher interface {
	FetchText(ctx context.Context, index, objectType, id string) (string, error)
}

// Recorder receives per-query assembly counters.
type Recorder interface {
	HitsSkipped(n int)
	Highlights(resolved, dropped int)
}
