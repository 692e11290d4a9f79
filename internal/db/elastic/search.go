package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kailas-cloud/extsearch/internal/db"
	"github.com/kailas-cloud/extsearch/internal/domain"
)

type searchResponse struct {
	Hits struct {
		Total json.RawMessage `json:"total"`
		Hits  []struct {
			ID        string              `json:"_id"`
			Score     *float64            `json:"_score"`
			Source    map[string]any      `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchHighlighted runs POST /{index}/_search with the unified highlighter on q.Field.
func (s *Store) SearchHighlighted(ctx context.Context, q *db.HighlightQuery) (*db.SearchResult, error) {
	body, err := buildSearchBody(q)
	if err != nil {
		return nil, err
	}

	resp, err := s.send(ctx, db.OpESSearch, http.MethodPost, "/"+url.PathEscape(q.IndexName)+"/_search", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(db.OpESSearch, resp)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &db.Error{Op: db.OpESSearch, Err: fmt.Errorf("decode: %w", err)}
	}

	entries := make([]db.SearchEntry, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		e := db.SearchEntry{
			ID:         h.ID,
			Source:     h.Source,
			Highlights: h.Highlight,
		}
		if h.Score != nil && !q.Randomized {
			e.Score = *h.Score
			e.HasScore = true
		}
		entries = append(entries, e)
	}

	return &db.SearchResult{Total: parseTotal(sr.Hits.Total, len(entries)), Entries: entries}, nil
}

func buildSearchBody(q *db.HighlightQuery) (map[string]any, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Field == "" {
		return nil, fmt.Errorf("field is required")
	}
	if strings.TrimSpace(q.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	var query map[string]any
	switch q.QueryType {
	case domain.QueryMatch:
		query = map[string]any{"match": map[string]any{q.Field: q.Query}}
	default:
		query = map[string]any{"term": map[string]any{q.Field: q.Query}}
	}

	if q.Randomized {
		query = map[string]any{
			"function_score": map[string]any{
				"query":      query,
				"functions":  []any{map[string]any{"random_score": map[string]any{}}},
				"boost_mode": "replace",
			},
		}
	}

	field := map[string]any{}
	if q.FragmentSize > 0 {
		field["fragment_size"] = q.FragmentSize
	}
	if q.Fragments > 0 {
		field["number_of_fragments"] = q.Fragments
	}

	hl := map[string]any{
		"type":   "unified",
		"fields": map[string]any{q.Field: field},
	}
	if q.OpenTag != "" || q.CloseTag != "" {
		hl["pre_tags"] = []string{q.OpenTag}
		hl["post_tags"] = []string{q.CloseTag}
	}

	return map[string]any{
		"size":      q.Limit,
		"query":     query,
		"highlight": hl,
	}, nil
}

// parseTotal accepts both {"value": n} and a bare number.
func parseTotal(raw json.RawMessage, fallback int) int {
	if len(raw) == 0 {
		return fallback
	}
	var obj struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return fallback
}
