// Package instrumented wraps a db.Store with latency metrics and debug logging.
package instrumented

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/extsearch/internal/db"
	"github.com/kailas-cloud/extsearch/internal/metrics"
)

// Metric op labels.
const (
	OpPing        = "ping"
	OpSearch      = "search"
	OpGetDocument = "get_document"
	OpPutDocument = "put_document"
	OpCreateIndex = "create_index"
	OpDropIndex   = "drop_index"
	OpIndexExists = "index_exists"
)

// Store decorates a backend store. Lifecycle calls pass through unobserved.
type Store struct {
	db.Store
	driver string
	logger *zap.Logger
}

var _ db.Store = (*Store)(nil)

// Wrap instruments inner under the given driver label.
func Wrap(inner db.Store, driver string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{Store: inner, driver: driver, logger: logger}
}

func (s *Store) observe(op string, start time.Time, err error) {
	metrics.ObserveBackend(s.driver, op, start, err)
	if err != nil {
		s.logger.Debug("Backend call failed",
			zap.String("driver", s.driver),
			zap.String("op", op),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}
}

// Ping checks backend connectivity.
func (s *Store) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.Store.Ping(ctx)
	s.observe(OpPing, start, err)
	return err //nolint:wrapcheck // transparent decorator
}

// SearchHighlighted runs a highlighted query.
func (s *Store) SearchHighlighted(ctx context.Context, q *db.HighlightQuery) (*db.SearchResult, error) {
	start := time.Now()
	res, err := s.Store.SearchHighlighted(ctx, q)
	s.observe(OpSearch, start, err)
	return res, err //nolint:wrapcheck // transparent decorator
}

// GetDocument fetches a stored document source.
func (s *Store) GetDocument(ctx context.Context, index, objectType, id string) (map[string]any, error) {
	start := time.Now()
	src, err := s.Store.GetDocument(ctx, index, objectType, id)
	s.observe(OpGetDocument, start, err)
	return src, err //nolint:wrapcheck // transparent decorator
}

// PutDocument stores a document source.
func (s *Store) PutDocument(ctx context.Context, index, objectType, id string, src map[string]any) error {
	start := time.Now()
	err := s.Store.PutDocument(ctx, index, objectType, id, src)
	s.observe(OpPutDocument, start, err)
	return err //nolint:wrapcheck // transparent decorator
}

// CreateIndex creates an index.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	start := time.Now()
	err := s.Store.CreateIndex(ctx, def)
	s.observe(OpCreateIndex, start, err)
	return err //nolint:wrapcheck // transparent decorator
}

// DropIndex drops an index.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	start := time.Now()
	err := s.Store.DropIndex(ctx, name)
	s.observe(OpDropIndex, start, err)
	return err //nolint:wrapcheck // transparent decorator
}

// IndexExists reports whether an index exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	ok, err := s.Store.IndexExists(ctx, name)
	s.observe(OpIndexExists, start, err)
	return ok, err //nolint:wrapcheck // transparent decorator
}
