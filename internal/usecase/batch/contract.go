package batch

import (
	"context"

	"github.com/kailas-cloud/extsearch/internal/domain"
)

// DocumentIndexer validates and stores a single document.
type DocumentIndexer interface {
	Index(ctx context.Context, collection, id string, doc domain.Document) error
}
