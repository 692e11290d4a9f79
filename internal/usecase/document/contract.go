package document

import (
	"context"

	"github.com/kailas-cloud/extsearch/internal/domain"
)

// Repository reads and writes documents of the configured index.
type Repository interface {
	FetchText(ctx context.Context, index, objectType, id string) (string, error)
	Put(ctx context.Context, id string, doc domain.Document) error
}
