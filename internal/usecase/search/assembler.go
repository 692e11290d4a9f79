package search

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/domain/highlight"
	"github.com/kailas-cloud/extsearch/internal/domain/search/diagnostic"
	"github.com/kailas-cloud/extsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/extsearch/internal/domain/search/result"
)

// Assembler turns raw backend hits into search results with resolved highlights.
// It holds no per-query state and is safe for concurrent use.
type Assembler struct {
	resolver   *highlight.Resolver
	collection string
	logger     *zap.Logger
}

// NewAssembler creates an assembler for results of one collection.
func NewAssembler(resolver *highlight.Resolver, collection string, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{resolver: resolver, collection: collection, logger: logger}
}

// Assemble converts hits in order. Hits without a metadata mapping are skipped;
// fragments of highlightField are resolved against the hit text with one cursor
// per hit. Scores are dropped when the ordering was randomized.
func (a *Assembler) Assemble(hits []hit.RawHit, highlightField, textField string, randomized bool) result.Batch {
	batch := result.Batch{Results: make([]result.Result, 0, len(hits))}

	for i := range hits {
		h := &hits[i]
		if h.Metadata == nil {
			issue := diagnostic.Issue{
				Kind:     diagnostic.MalformedHit,
				HitID:    h.ID,
				Fragment: diagnostic.NoFragment,
				Reason:   "hit has no metadata mapping",
			}
			batch.Diagnostics.Add(issue)
			a.logger.Warn("Skipping search hit", zap.String("hit_id", h.ID), zap.Error(issue))
			continue
		}

		var score *float64
		if !randomized {
			score = h.Score
		}
		highlights := a.resolve(h, highlightField, textField, &batch.Diagnostics)
		batch.Results = append(batch.Results,
			result.New(h.ID, a.collection, score, copyMetadata(h.Metadata), highlights))
	}
	return batch
}

func (a *Assembler) resolve(
	h *hit.RawHit, highlightField, textField string, report *diagnostic.Report,
) []highlight.Highlight {
	highlights := make([]highlight.Highlight, 0)
	cur := a.resolver.NewCursor()

	for i, frag := range h.Fragments(highlightField) {
		out := cur.Resolve(frag, h.Text)
		highlights = append(highlights, out.Highlights...)

		var reason string
		switch {
		case !h.HasText:
			reason = fmt.Sprintf("document text %s unavailable", textField)
		case !out.Located:
			reason = "fragment not found in document text"
		case out.Dropped > 0:
			reason = fmt.Sprintf("%d emphasized span(s) could not be resolved", out.Dropped)
		default:
			continue
		}
		issue := diagnostic.Issue{
			Kind:     diagnostic.UnresolvableHighlight,
			HitID:    h.ID,
			Fragment: i,
			Spans:    out.Dropped,
			Reason:   reason,
		}
		report.Add(issue)
		a.logger.Warn("Unresolvable highlight",
			zap.String("hit_id", h.ID),
			zap.Int("fragment", i),
			zap.Int("spans", out.Dropped),
			zap.String("reason", reason),
		)
	}
	return highlights
}

func copyMetadata(src map[string]string) map[string]string {
	out := make(map[string]string, len(domain.MetadataKeys))
	for _, k := range domain.MetadataKeys {
		if v, ok := src[k]; ok {
			out[k] = v
		}
	}
	return out
}
