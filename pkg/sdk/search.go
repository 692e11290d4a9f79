package extsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/extsearch/internal/domain/search/request"
	"github.com/kailas-cloud/extsearch/internal/domain/search/result"
)

// SearchService runs queries against the configured index.
type SearchService struct {
	svc searchUseCase
	obs *observer
}

// Query runs a full-text query and resolves the highlights of every hit.
// opts may be nil.
func (s *SearchService) Query(
	ctx context.Context, query string, opts *SearchOptions,
) (_ SearchResponse, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err) }()

	if opts == nil {
		opts = &SearchOptions{}
	}
	req, err := request.New(query, opts.Limit, opts.Random)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("query: %w", err)
	}

	batch, err := s.svc.Search(ctx, req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("query: %w", err)
	}
	return fromBatch(&batch), nil
}

func fromBatch(b *result.Batch) SearchResponse {
	out := SearchResponse{Results: make([]SearchResult, len(b.Results))}
	for i := range b.Results {
		r := &b.Results[i]
		sr := SearchResult{
			ID:         r.ID(),
			Collection: r.Collection(),
			Title:      r.Title(),
			Metadata:   r.Metadata(),
			Highlights: make([]Highlight, len(r.Highlights())),
		}
		if score, ok := r.Score(); ok {
			sr.Score = &score
		}
		for j, h := range r.Highlights() {
			sr.Highlights[j] = Highlight{Begin: h.Begin, End: h.End, Text: h.Text}
		}
		out.Results[i] = sr
	}
	for _, is := range b.Diagnostics.Issues() {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Kind:     DiagnosticKind(is.Kind),
			HitID:    is.HitID,
			Fragment: is.Fragment,
			Spans:    is.Spans,
			Reason:   is.Reason,
		})
	}
	return out
}
