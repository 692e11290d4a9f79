package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/extsearch/internal/domain"
)

// MaxBatchSize is the maximum number of items per batch request.
const MaxBatchSize = 100

// DefaultConcurrency bounds parallel writes of one batch.
const DefaultConcurrency = 4

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Item is one document of a batch.
type Item struct {
	ID       string
	Document domain.Document
}

// Result is the outcome of one item, in request order.
type Result struct {
	ID     string
	Status ItemStatus
	Err    error
}

func ok(id string) Result { return Result{ID: id, Status: StatusOK} }

func failed(id string, err error) Result { return Result{ID: id, Status: StatusError, Err: err} }

// Service indexes documents in batches with per-item error reporting.
type Service struct {
	docs         DocumentIndexer
	index        string
	maxBatchSize int
	concurrency  int
}

// New creates a batch service for the configured index.
func New(docs DocumentIndexer, index string) *Service {
	return &Service{
		docs:         docs,
		index:        index,
		maxBatchSize: MaxBatchSize,
		concurrency:  DefaultConcurrency,
	}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// WithConcurrency configures how many items are written in parallel.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// Index stores every item and reports one result per item.
// Once the backend reports itself unavailable, the items not yet written
// fail with the same error instead of being attempted.
func (s *Service) Index(ctx context.Context, collection string, items []Item) []Result {
	results := make([]Result, len(items))

	if err := s.precheck(collection, len(items)); err != nil {
		for i, item := range items {
			results[i] = failed(item.ID, err)
		}
		return results
	}

	var unavailable atomic.Pointer[error]
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, item := range items {
		g.Go(func() error {
			if errp := unavailable.Load(); errp != nil {
				results[i] = failed(item.ID, *errp)
				return nil
			}
			err := s.docs.Index(gctx, collection, item.ID, item.Document)
			if err != nil {
				if errors.Is(err, domain.ErrRemoteUnavailable) {
					unavailable.CompareAndSwap(nil, &err)
				}
				results[i] = failed(item.ID, err)
				return nil
			}
			results[i] = ok(item.ID)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return results
}

func (s *Service) precheck(collection string, n int) error {
	if err := domain.CheckCollection(collection, s.index); err != nil {
		return err
	}
	if n > s.maxBatchSize {
		return fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidArgument)
	}
	return nil
}

// Succeeded counts successful results.
func Succeeded(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusOK {
			n++
		}
	}
	return n
}
