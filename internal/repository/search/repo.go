package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/extsearch/internal/db"
	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/extsearch/internal/repository/source"
)

// store is the consumer interface for highlighted search (ISP).
type store interface {
	SearchHighlighted(ctx context.Context, q *db.HighlightQuery) (*db.SearchResult, error)
}

// Highlighting carries the fragment settings sent with every query.
type Highlighting struct {
	OpenTag      string
	CloseTag     string
	FragmentSize int
	Fragments    int
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store  store
	layout domain.Repository
	hl     Highlighting
}

// New creates a search repository for one repository layout.
func New(s store, layout domain.Repository, hl Highlighting) *Repo {
	return &Repo{store: s, layout: layout.WithDefaults(), hl: hl}
}

// Layout returns the repository layout the queries run against.
func (r *Repo) Layout() domain.Repository { return r.layout }

// Query runs a highlighted query and returns the hits in backend order.
// A non-positive limit selects the configured result size.
func (r *Repo) Query(ctx context.Context, text string, limit int, randomized bool) ([]hit.RawHit, error) {
	if text == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = r.layout.ResultSize
	}

	res, err := r.store.SearchHighlighted(ctx, &db.HighlightQuery{
		IndexName:    r.layout.IndexName,
		ObjectType:   r.layout.ObjectType,
		Field:        r.layout.HighlightField,
		Query:        text,
		QueryType:    r.layout.QueryType,
		Limit:        min(limit, domain.MaxResultSize),
		Randomized:   randomized,
		OpenTag:      r.hl.OpenTag,
		CloseTag:     r.hl.CloseTag,
		FragmentSize: r.hl.FragmentSize,
		Fragments:    r.hl.Fragments,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.layout.IndexName, db.DomainError(err))
	}

	hits := make([]hit.RawHit, 0, len(res.Entries))
	for i := range res.Entries {
		hits = append(hits, r.toHit(&res.Entries[i]))
	}
	return hits, nil
}

func (r *Repo) toHit(e *db.SearchEntry) hit.RawHit {
	h := hit.RawHit{ID: e.ID, Highlights: e.Highlights}
	if e.HasScore {
		score := e.Score
		h.Score = &score
	}
	if meta, ok := source.Mapping(e.Source, r.layout.MetadataKey); ok {
		h.Metadata = meta
	}
	if text, ok := source.String(e.Source, r.layout.TextField); ok {
		h = h.WithText(text)
	}
	return h
}
