package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/extsearch/internal/db"
	"github.com/kailas-cloud/extsearch/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn         func(ctx context.Context, index, objectType, id string) (map[string]any, error)
	putFn         func(ctx context.Context, index, objectType, id string, src map[string]any) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) GetDocument(ctx context.Context, index, objectType, id string) (map[string]any, error) {
	if m.getFn != nil {
		return m.getFn(ctx, index, objectType, id)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) PutDocument(ctx context.Context, index, objectType, id string, src map[string]any) error {
	if m.putFn != nil {
		return m.putFn(ctx, index, objectType, id, src)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, domain.DefaultRepository("docs")), ms
}
