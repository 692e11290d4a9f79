package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/extsearch/internal/db"
)

type getResponse struct {
	Found  bool           `json:"found"`
	Source map[string]any `json:"_source"`
}

// GetDocument fetches GET /{index}/{objectType}/{id} and returns its _source.
func (s *Store) GetDocument(ctx context.Context, index, objectType, id string) (map[string]any, error) {
	resp, err := s.send(ctx, db.OpESGet, http.MethodGet, docPath(index, objectType, id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Both a missing document and a missing index answer 404.
	if resp.StatusCode == http.StatusNotFound {
		return nil, db.ErrKeyNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(db.OpESGet, resp)
	}

	var gr getResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, &db.Error{Op: db.OpESGet, Err: fmt.Errorf("decode: %w", err)}
	}
	if !gr.Found {
		return nil, db.ErrKeyNotFound
	}
	return gr.Source, nil
}

// PutDocument indexes source at /{index}/{objectType}/{id} and refreshes so the
// document is searchable on return.
func (s *Store) PutDocument(ctx context.Context, index, objectType, id string, source map[string]any) error {
	resp, err := s.send(ctx, db.OpESPut, http.MethodPut, docPath(index, objectType, id)+"?refresh=true", source)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError(db.OpESPut, resp)
	}
	return nil
}
