package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/domain/search/diagnostic"
	"github.com/kailas-cloud/extsearch/internal/domain/search/request"
	"github.com/kailas-cloud/extsearch/internal/domain/search/result"
)

// DefaultFetchConcurrency bounds parallel document text fetches per query.
const DefaultFetchConcurrency = 8

// Service runs queries and assembles highlighted results.
type Service struct {
	repo     Repository
	texts    TextFetcher
	asm      *Assembler
	layout   domain.Repository
	recorder Recorder
	logger   *zap.Logger
}

// New creates a search service. recorder and logger can be nil.
func New(
	repo Repository, texts TextFetcher, asm *Assembler,
	layout domain.Repository, recorder Recorder, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		texts:    texts,
		asm:      asm,
		layout:   layout.WithDefaults(),
		recorder: recorder,
		logger:   logger,
	}
}

// Search queries the repository, fills in missing document texts and assembles
// the results. Per-hit problems are reported in the batch diagnostics.
func (s *Service) Search(ctx context.Context, req request.Request) (result.Batch, error) {
	if req.Query() == "" {
		return result.Batch{}, fmt.Errorf("query is required: %w", domain.ErrInvalidArgument)
	}
	randomized := req.Randomized(s.layout.RandomOrder)

	hits, err := s.repo.Query(ctx, req.Query(), req.Limit(s.layout.ResultSize), randomized)
	if err != nil {
		return result.Batch{}, fmt.Errorf("query: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultFetchConcurrency)
	for i := range hits {
		h := hits[i]
		if h.HasText || h.Metadata == nil || len(h.Fragments(s.layout.HighlightField)) == 0 {
			continue
		}
		g.Go(func() error {
			text, err := s.texts.FetchText(gctx, s.layout.IndexName, s.layout.ObjectType, h.ID)
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Debug("Document text not found", zap.String("hit_id", h.ID), zap.Error(err))
				return nil
			}
			if err != nil {
				return fmt.Errorf("fetch text %s: %w", h.ID, err)
			}
			hits[i] = h.WithText(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result.Batch{}, err
	}

	batch := s.asm.Assemble(hits, s.layout.HighlightField, s.layout.TextField, randomized)
	s.record(&batch)
	return batch, nil
}

func (s *Service) record(batch *result.Batch) {
	if s.recorder == nil {
		return
	}
	resolved := 0
	for i := range batch.Results {
		resolved += len(batch.Results[i].Highlights())
	}
	dropped := 0
	for _, issue := range batch.Diagnostics.Issues() {
		if issue.Kind == diagnostic.UnresolvableHighlight {
			dropped += issue.Spans
		}
	}
	s.recorder.HitsSkipped(batch.Diagnostics.Count(diagnostic.MalformedHit))
	s.recorder.Highlights(resolved, dropped)
}
