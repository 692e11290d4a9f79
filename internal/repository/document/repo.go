package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/extsearch/internal/db"
	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/repository/source"
)

// store is the consumer interface for documents (ISP).
type store interface {
	GetDocument(ctx context.Context, index, objectType, id string) (map[string]any, error)
	PutDocument(ctx context.Context, index, objectType, id string, src map[string]any) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/document.Repository.
type Repo struct {
	store  store
	layout domain.Repository
}

// New creates a document repository for one repository layout.
func New(s store, layout domain.Repository) *Repo {
	return &Repo{store: s, layout: layout.WithDefaults()}
}

// FetchText returns the full text of a stored document.
func (r *Repo) FetchText(ctx context.Context, index, objectType, id string) (string, error) {
	if index == "" || id == "" {
		return "", fmt.Errorf("index and id are required: %w", domain.ErrInvalidArgument)
	}
	if objectType == "" {
		objectType = r.layout.ObjectType
	}

	src, err := r.store.GetDocument(ctx, index, objectType, id)
	if err != nil {
		return "", fmt.Errorf("get document %s/%s: %w", index, id, db.DomainError(err))
	}
	text, ok := source.String(src, r.layout.TextField)
	if !ok {
		return "", fmt.Errorf("document %s/%s has no %s: %w", index, id, r.layout.TextField, domain.ErrNotFound)
	}
	return text, nil
}

// Put stores a document in the configured index.
func (r *Repo) Put(ctx context.Context, id string, doc domain.Document) error {
	if id == "" {
		return fmt.Errorf("document id is required: %w", domain.ErrInvalidArgument)
	}
	src := source.Build(r.layout.TextField, doc.Text, r.layout.MetadataKey, doc.Metadata)
	if r.layout.HighlightField != r.layout.TextField {
		src = source.Merge(src, r.layout.HighlightField, doc.Text)
	}
	if err := r.store.PutDocument(ctx, r.layout.IndexName, r.layout.ObjectType, id, src); err != nil {
		return fmt.Errorf("put document %s: %w", id, db.DomainError(err))
	}
	return nil
}

// EnsureIndex creates the configured index unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.layout.IndexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.layout.IndexName, db.DomainError(err))
	}
	if exists {
		return nil
	}

	def, err := r.indexDefinition()
	if err != nil {
		return fmt.Errorf("index definition: %w", err)
	}
	err = r.store.CreateIndex(ctx, def)
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", def.Name, db.DomainError(err))
	}
	return nil
}

func (r *Repo) indexDefinition() (*db.IndexDefinition, error) {
	b := db.NewIndex(r.layout.IndexName).
		Prefix(db.KeyPrefix(r.layout.IndexName, r.layout.ObjectType)).
		Text(r.layout.TextField)
	if r.layout.HighlightField != r.layout.TextField {
		b.Text(r.layout.HighlightField)
	}
	for _, k := range domain.MetadataKeys {
		b.Tag(r.layout.MetadataKey + "." + k)
	}
	return b.Build()
}
