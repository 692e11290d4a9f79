package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/extsearch/internal/db"
)

// DocumentKey returns the hash key of a document: <index>:<objectType>:<id>.
func DocumentKey(index, objectType, id string) string {
	return db.KeyPrefix(index, objectType) + id
}

// GetDocument returns the flattened hash of a document.
func (s *Store) GetDocument(ctx context.Context, index, objectType, id string) (map[string]any, error) {
	cmd := s.b().Hgetall().Key(DocumentKey(index, objectType, id)).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, wrapErr(db.OpHGetAll, err)
	}
	if len(m) == 0 {
		return nil, db.ErrKeyNotFound
	}

	source := make(map[string]any, len(m))
	for k, v := range m {
		source[k] = v
	}
	return source, nil
}

// PutDocument stores a document source as a hash with dotted field names.
// An empty nested object is kept as a field holding db.EmptyObject.
func (s *Store) PutDocument(ctx context.Context, index, objectType, id string, source map[string]any) error {
	fields := db.Flatten(source)
	if len(fields) == 0 {
		return fmt.Errorf("document %q has no fields", id)
	}

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	cmd := s.b().Hset().Key(DocumentKey(index, objectType, id)).FieldValue()
	for _, k := range names {
		cmd = cmd.FieldValue(k, fields[k])
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return wrapErr(db.OpHSet, err)
	}
	return nil
}
