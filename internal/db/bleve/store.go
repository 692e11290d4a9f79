// Package bleve implements db.Store on embedded in-memory bleve indexes.
// It serves local development and end-to-end tests without an external cluster.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/highlight/highlighter/ansi"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/extsearch/internal/db"
	"github.com/kailas-cloud/extsearch/internal/domain"
)

// Emphasis markers produced by the ansi highlighter.
const (
	OpenMarker  = "\x1b[43m"
	CloseMarker = "\x1b[0m"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

var errClosed = errors.New("store is closed")

// Store keeps one in-memory bleve index per index name. Document sources are
// kept next to the index, flattened with db.Flatten, and returned as the hit
// source the way a remote backend returns its stored source.
type Store struct {
	mu      sync.RWMutex
	indexes map[string]bleve.Index
	sources map[string]map[string]map[string]string
	closed  bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		indexes: make(map[string]bleve.Index),
		sources: make(map[string]map[string]map[string]string),
	}
}

// Ping fails only after Close.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return db.Unavailable(db.OpPing, errClosed)
	}
	return nil
}

// WaitForReady returns immediately: the store is ready once created.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Close closes every index.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, idx := range s.indexes {
		_ = idx.Close()
		delete(s.indexes, name)
		delete(s.sources, name)
	}
	s.closed = true
}

// CreateIndex builds an in-memory index whose mapping follows def.
func (s *Store) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return db.Unavailable(db.OpBleveIndex, errClosed)
	}
	if _, ok := s.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}

	idx, err := bleve.NewMemOnly(buildMapping(def))
	if err != nil {
		return &db.Error{Op: db.OpBleveIndex, Err: err}
	}
	s.indexes[def.Name] = idx
	s.sources[def.Name] = make(map[string]map[string]string)
	return nil
}

// DropIndex closes and forgets an index.
func (s *Store) DropIndex(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[name]
	if !ok {
		return db.ErrIndexNotFound
	}
	delete(s.indexes, name)
	delete(s.sources, name)
	if err := idx.Close(); err != nil {
		return &db.Error{Op: db.OpBleveIndex, Err: err}
	}
	return nil
}

// IndexExists reports whether an index was created.
func (s *Store) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexes[name]
	return ok, nil
}

func (s *Store) index(op, name string) (bleve.Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, db.Unavailable(op, errClosed)
	}
	idx, ok := s.indexes[name]
	if !ok {
		return nil, &db.Error{Op: op, Err: db.ErrIndexNotFound}
	}
	return idx, nil
}

// PutDocument indexes source under id. The object type is not part of the key:
// one bleve index holds one document type.
func (s *Store) PutDocument(_ context.Context, index, _, id string, source map[string]any) error {
	idx, err := s.index(db.OpBleveIndex, index)
	if err != nil {
		return err
	}

	// The source is visible before the document is searchable.
	prev := s.swapSource(index, id, db.Flatten(source))
	if err := idx.Index(id, source); err != nil {
		s.swapSource(index, id, prev)
		return &db.Error{Op: db.OpBleveIndex, Err: err}
	}
	return nil
}

// swapSource stores fields for id and returns the previous value. Nil fields
// remove the entry.
func (s *Store) swapSource(index, id string, fields map[string]string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.sources[index]
	if !ok {
		return nil
	}
	prev := docs[id]
	if fields == nil {
		delete(docs, id)
	} else {
		docs[id] = fields
	}
	return prev
}

// GetDocument returns the source of a document, flattened with dotted keys.
func (s *Store) GetDocument(_ context.Context, index, _, id string) (map[string]any, error) {
	if _, err := s.index(db.OpBleveSearch, index); err != nil {
		return nil, err
	}
	src, ok := s.source(index, id)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return src, nil
}

func (s *Store) source(index, id string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.sources[index][id]
	if !ok {
		return nil, false
	}
	src := make(map[string]any, len(fields))
	for k, v := range fields {
		src[k] = v
	}
	return src, true
}

// SearchHighlighted runs a term or match query on q.Field with the ansi highlighter.
// Tag options in q are ignored: fragments always carry OpenMarker and CloseMarker.
func (s *Store) SearchHighlighted(ctx context.Context, q *db.HighlightQuery) (*db.SearchResult, error) {
	if q.Field == "" {
		return nil, fmt.Errorf("field is required")
	}
	if strings.TrimSpace(q.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	idx, err := s.index(db.OpBleveSearch, q.IndexName)
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q), q.Limit, 0, false)
	hl := bleve.NewHighlightWithStyle(ansi.Name)
	hl.AddField(q.Field)
	req.Highlight = hl

	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, searchErr(err)
	}

	entries := make([]db.SearchEntry, 0, len(res.Hits))
	for _, h := range res.Hits {
		src, _ := s.source(q.IndexName, h.ID)
		e := db.SearchEntry{
			ID:         h.ID,
			Source:     src,
			Highlights: h.Fragments,
		}
		if !q.Randomized {
			e.Score = h.Score
			e.HasScore = true
		}
		entries = append(entries, e)
	}

	if q.Randomized {
		rand.Shuffle(len(entries), func(i, j int) {
			entries[i], entries[j] = entries[j], entries[i]
		})
	}

	return &db.SearchResult{Total: int(res.Total), Entries: entries}, nil
}

func buildQuery(q *db.HighlightQuery) query.Query {
	if q.QueryType == domain.QueryMatch {
		mq := bleve.NewMatchQuery(q.Query)
		mq.SetField(q.Field)
		return mq
	}
	// Indexed terms are lowercased by the standard analyzer.
	tq := bleve.NewTermQuery(strings.ToLower(q.Query))
	tq.SetField(q.Field)
	return tq
}

func searchErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return db.Unavailable(db.OpBleveSearch, err)
	}
	return &db.Error{Op: db.OpBleveSearch, Err: err}
}

// buildMapping maps every definition field at its dotted path. Text fields are
// analyzed and keep term vectors for highlighting; tag fields are keywords.
func buildMapping(def *db.IndexDefinition) *mapping.IndexMappingImpl {
	root := bleve.NewDocumentMapping()
	for _, f := range def.Fields {
		parts := strings.Split(f.Name, ".")
		parent := root
		for _, p := range parts[:len(parts)-1] {
			sub, ok := parent.Properties[p]
			if !ok {
				sub = bleve.NewDocumentMapping()
				parent.AddSubDocumentMapping(p, sub)
			}
			parent = sub
		}

		var fm *mapping.FieldMapping
		if f.Type == db.IndexFieldTag {
			fm = bleve.NewKeywordFieldMapping()
		} else {
			fm = bleve.NewTextFieldMapping()
			fm.IncludeTermVectors = true
		}
		fm.Store = true
		parent.AddFieldMappingsAt(parts[len(parts)-1], fm)
	}

	im := bleve.NewIndexMapping()
	im.DefaultMapping = root
	return im
}
