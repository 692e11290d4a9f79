package elastic

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/kailas-cloud/extsearch/internal/db"
)

// CreateIndex creates the index with explicit mappings built from def.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	resp, err := s.send(ctx, db.OpESCreateIndex, http.MethodPut, "/"+url.PathEscape(def.Name), map[string]any{
		"mappings": buildMappings(def),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := statusError(db.OpESCreateIndex, resp)
		if errors.Is(err, db.ErrIndexExists) {
			return db.ErrIndexExists
		}
		return err
	}
	return nil
}

// DropIndex deletes the index and its documents.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	resp, err := s.send(ctx, db.OpESDropIndex, http.MethodDelete, "/"+url.PathEscape(name), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return db.ErrIndexNotFound
	default:
		return statusError(db.OpESDropIndex, resp)
	}
}

// IndexExists checks the index with HEAD.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	resp, err := s.send(ctx, db.OpESIndexExists, http.MethodHead, "/"+url.PathEscape(name), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, statusError(db.OpESIndexExists, resp)
	}
}

// buildMappings nests dotted field paths into object properties.
func buildMappings(def *db.IndexDefinition) map[string]any {
	root := map[string]any{}
	for _, f := range def.Fields {
		props := root
		parts := strings.Split(f.Name, ".")
		for _, p := range parts[:len(parts)-1] {
			obj, ok := props[p].(map[string]any)
			if !ok {
				obj = map[string]any{"properties": map[string]any{}}
				props[p] = obj
			}
			props = obj["properties"].(map[string]any)
		}

		typ := "text"
		if f.Type == db.IndexFieldTag {
			typ = "keyword"
		}
		props[parts[len(parts)-1]] = map[string]any{"type": typ}
	}
	return map[string]any{"properties": root}
}
