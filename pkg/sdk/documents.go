package extsearch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/extsearch/internal/domain"
	batchuc "github.com/kailas-cloud/extsearch/internal/usecase/batch"
)

// DocumentService reads and indexes documents of a single collection.
type DocumentService struct {
	collection string
	svc        documentUseCase
	batch      batchUseCase
	obs        *observer
}

// Text returns the full text of a document.
func (s *DocumentService) Text(ctx context.Context, id string) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("text", start, err) }()

	text, err := s.svc.Text(ctx, s.collection, id)
	if err != nil {
		return "", fmt.Errorf("get text: %w", err)
	}
	return text, nil
}

// Stream returns the document text as a reader.
func (s *DocumentService) Stream(ctx context.Context, id string) (_ io.Reader, err error) {
	start := time.Now()
	defer func() { s.obs.observe("stream", start, err) }()

	r, err := s.svc.Stream(ctx, s.collection, id)
	if err != nil {
		return nil, fmt.Errorf("stream text: %w", err)
	}
	return r, nil
}

// Format returns the format identifier of a document. Always "text".
func (s *DocumentService) Format(ctx context.Context, id string) (string, error) {
	f, err := s.svc.Format(ctx, s.collection, id)
	if err != nil {
		return "", fmt.Errorf("get format: %w", err)
	}
	return f, nil
}

// Index stores a document under id, replacing any previous version.
func (s *DocumentService) Index(ctx context.Context, id string, doc Document) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("index", start, err) }()

	d := domain.Document{Text: doc.Text, Metadata: doc.Metadata}
	if err = s.svc.Index(ctx, s.collection, id, d); err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	return nil
}

// IndexBatch stores up to 100 documents and reports the outcome of each one.
// Per-item failures do not fail the call.
func (s *DocumentService) IndexBatch(ctx context.Context, items []BatchItem) BatchResponse {
	start := time.Now()

	in := make([]batchuc.Item, len(items))
	for i, it := range items {
		in[i] = batchuc.Item{
			ID:       it.ID,
			Document: domain.Document{Text: it.Document.Text, Metadata: it.Document.Metadata},
		}
	}
	results := s.batch.Index(ctx, s.collection, in)

	resp := BatchResponse{Results: make([]BatchResult, len(results))}
	for i, r := range results {
		ok := r.Status == batchuc.StatusOK
		resp.Results[i] = BatchResult{ID: r.ID, OK: ok, Err: r.Err}
		if ok {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}

	var err error
	if resp.Failed > 0 {
		err = fmt.Errorf("%d of %d items failed", resp.Failed, len(results))
	}
	s.obs.observe("index_batch", start, err)
	return resp
}
