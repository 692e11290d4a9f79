package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/extsearch/internal/db"
	"github.com/kailas-cloud/extsearch/internal/domain"
)

func newTestStore(t *testing.T, h http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s, err := NewStore(Config{URL: srv.URL + "/", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return m
}

func highlightQuery() *db.HighlightQuery {
	return &db.HighlightQuery{
		IndexName:  "docs",
		ObjectType: "_doc",
		Field:      "doc.text",
		Query:      "brown",
		Limit:      5,
		OpenTag:    "<em>",
		CloseTag:   "</em>",
	}
}

func TestNewStore_Validation(t *testing.T) {
	for _, u := range []string{"", "localhost:9200", "://bad"} {
		if _, err := NewStore(Config{URL: u}); err == nil {
			t.Errorf("NewStore(%q): expected error", u)
		}
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"tagline":"You Know, for Search"}`)
	})
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	s, err := NewStore(Config{URL: srv.URL})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Ping(context.Background()); !errors.Is(err, db.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSearchHighlighted_RequestBody(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/docs/_search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body := decodeBody(t, r)

		if body["size"] != float64(5) {
			t.Errorf("size = %v", body["size"])
		}
		wantQuery := map[string]any{"term": map[string]any{"doc.text": "brown"}}
		if !reflect.DeepEqual(body["query"], wantQuery) {
			t.Errorf("query = %v", body["query"])
		}
		hl := body["highlight"].(map[string]any)
		if hl["type"] != "unified" {
			t.Errorf("highlighter = %v", hl["type"])
		}
		if !reflect.DeepEqual(hl["pre_tags"], []any{"<em>"}) || !reflect.DeepEqual(hl["post_tags"], []any{"</em>"}) {
			t.Errorf("tags = %v / %v", hl["pre_tags"], hl["post_tags"])
		}
		if _, ok := hl["fields"].(map[string]any)["doc.text"]; !ok {
			t.Errorf("highlight fields = %v", hl["fields"])
		}

		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{
			"_id":"a1","_score":0.87,
			"_source":{"doc":{"text":"The quick brown fox"},"metadata":{"source":"wiki"}},
			"highlight":{"doc.text":["quick <em>brown</em> fox"]}
		}]}}`)
	})

	res, err := s.SearchHighlighted(context.Background(), highlightQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || len(res.Entries) != 1 {
		t.Fatalf("total=%d entries=%d", res.Total, len(res.Entries))
	}
	e := res.Entries[0]
	if e.ID != "a1" || !e.HasScore || e.Score != 0.87 {
		t.Errorf("entry = %+v", e)
	}
	if got := e.Highlights["doc.text"]; len(got) != 1 || got[0] != "quick <em>brown</em> fox" {
		t.Errorf("highlights = %v", e.Highlights)
	}
	doc := e.Source["doc"].(map[string]any)
	if doc["text"] != "The quick brown fox" {
		t.Errorf("source = %v", e.Source)
	}
}

func TestSearchHighlighted_RandomizedMatch(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		fs, ok := body["query"].(map[string]any)["function_score"].(map[string]any)
		if !ok {
			t.Errorf("expected function_score query, got %v", body["query"])
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		wantInner := map[string]any{"match": map[string]any{"doc.text": "quick brown"}}
		if !reflect.DeepEqual(fs["query"], wantInner) {
			t.Errorf("inner query = %v", fs["query"])
		}
		fns := fs["functions"].([]any)
		if _, ok := fns[0].(map[string]any)["random_score"]; !ok {
			t.Errorf("functions = %v", fns)
		}
		_, _ = io.WriteString(w, `{"hits":{"total":3,"hits":[{"_id":"a","_score":0.42,"_source":{}}]}}`)
	})

	q := highlightQuery()
	q.Query = "quick brown"
	q.QueryType = domain.QueryMatch
	q.Randomized = true

	res, err := s.SearchHighlighted(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("Total = %d, want 3 from bare number", res.Total)
	}
	if res.Entries[0].HasScore {
		t.Error("randomized entry carries a score")
	}
}

func TestSearchHighlighted_FragmentOptions(t *testing.T) {
	q := highlightQuery()
	q.FragmentSize = 150
	q.Fragments = 3

	body, err := buildSearchBody(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	field := body["highlight"].(map[string]any)["fields"].(map[string]any)["doc.text"].(map[string]any)
	if field["fragment_size"] != 150 || field["number_of_fragments"] != 3 {
		t.Errorf("field options = %v", field)
	}
}

func TestSearchHighlighted_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusServiceUnavailable, `{}`, db.ErrUnavailable},
		{"too many requests", http.StatusTooManyRequests, `{}`, db.ErrUnavailable},
		{
			"missing index", http.StatusNotFound,
			`{"error":{"type":"index_not_found_exception","reason":"no such index [docs]"},"status":404}`,
			db.ErrIndexNotFound,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := s.SearchHighlighted(context.Background(), highlightQuery())
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSearchHighlighted_BadRequest(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"parsing_exception","reason":"bad"},"status":400}`)
	})
	_, err := s.SearchHighlighted(context.Background(), highlightQuery())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrUnavailable) {
		t.Error("client error classified as unavailable")
	}
}

func TestSearchHighlighted_Validation(t *testing.T) {
	s := &Store{}
	q := highlightQuery()
	q.Limit = 0
	if _, err := s.SearchHighlighted(context.Background(), q); err == nil {
		t.Error("expected error for zero limit")
	}
}

func TestGetDocument(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/_doc/a1":
			_, _ = io.WriteString(w, `{"_id":"a1","found":true,"_source":{"doc":{"text":"hello"}}}`)
		case "/docs/_doc/gone":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"_id":"gone","found":false}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()

	src, err := s.GetDocument(ctx, "docs", "_doc", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src["doc"].(map[string]any)["text"] != "hello" {
		t.Errorf("source = %v", src)
	}

	if _, err := s.GetDocument(ctx, "docs", "_doc", "gone"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
	if _, err := s.GetDocument(ctx, "docs", "_doc", "boom"); !errors.Is(err, db.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestGetDocument_EscapesID(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/docs/_doc/a%2Fb" {
			t.Errorf("path = %q", r.URL.EscapedPath())
		}
		_, _ = io.WriteString(w, `{"found":true,"_source":{}}`)
	})
	if _, err := s.GetDocument(context.Background(), "docs", "_doc", "a/b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPutDocument(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/docs/_doc/a1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("refresh") != "true" {
			t.Error("expected refresh=true")
		}
		body := decodeBody(t, r)
		if body["doc"].(map[string]any)["text"] != "hello" {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusCreated)
	})
	err := s.PutDocument(context.Background(), "docs", "_doc", "a1", map[string]any{
		"doc": map[string]any{"text": "hello"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/docs" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body := decodeBody(t, r)
		want := map[string]any{
			"properties": map[string]any{
				"doc": map[string]any{"properties": map[string]any{
					"text": map[string]any{"type": "text"},
				}},
				"metadata": map[string]any{"properties": map[string]any{
					"source": map[string]any{"type": "keyword"},
				}},
			},
		}
		if !reflect.DeepEqual(body["mappings"], want) {
			t.Errorf("mappings = %v", body["mappings"])
		}
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	})

	def := db.NewIndex("docs").Text("doc.text").Tag("metadata.source").MustBuild()
	if err := s.CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"resource_already_exists_exception","reason":"index [docs] already exists"},"status":400}`)
	})
	def := db.NewIndex("docs").Text("doc.text").MustBuild()
	if err := s.CreateIndex(context.Background(), def); !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestIndexExistsAndDrop(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	if ok, err := s.IndexExists(ctx, "docs"); err != nil || !ok {
		t.Errorf("IndexExists(docs) = %v, %v", ok, err)
	}
	if ok, err := s.IndexExists(ctx, "other"); err != nil || ok {
		t.Errorf("IndexExists(other) = %v, %v", ok, err)
	}
	if err := s.DropIndex(ctx, "docs"); err != nil {
		t.Errorf("DropIndex(docs): %v", err)
	}
	if err := s.DropIndex(ctx, "other"); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("DropIndex(other): expected ErrIndexNotFound, got %v", err)
	}
}

func TestParseTotal(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`{"value":7,"relation":"eq"}`, 7},
		{`12`, 12},
		{``, 2},
		{`"x"`, 2},
	}
	for _, tc := range tests {
		if got := parseTotal(json.RawMessage(tc.raw), 2); got != tc.want {
			t.Errorf("parseTotal(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestPutDocument_EncodingErrorIsLocal(t *testing.T) {
	s := newTestStore(t, func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected for an unencodable source")
	})

	err := s.PutDocument(context.Background(), "docs", "_doc", "1", map[string]any{
		"doc": map[string]any{"text": make(chan int)},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrUnavailable) {
		t.Errorf("encoding failure classified as unavailable: %v", err)
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpESPut {
		t.Errorf("expected *db.Error for %s, got %v", db.OpESPut, err)
	}
}

func TestSend_RequestBuildErrorIsLocal(t *testing.T) {
	s := &Store{baseURL: "http://localhost:9200", client: http.DefaultClient}

	_, err := s.send(context.Background(), db.OpESGet, "BAD METHOD", "/", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrUnavailable) {
		t.Errorf("request build failure classified as unavailable: %v", err)
	}
}
