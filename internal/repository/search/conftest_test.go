package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/extsearch/internal/db"
	"github.com/kailas-cloud/extsearch/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, q *db.HighlightQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchHighlighted(ctx context.Context, q *db.HighlightQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	hl := Highlighting{OpenTag: "<em>", CloseTag: "</em>", FragmentSize: 150, Fragments: 3}
	return New(ms, domain.DefaultRepository("docs"), hl), ms
}
