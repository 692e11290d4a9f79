// Package elastic implements db.Store over the Elasticsearch REST API.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/extsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is kept for diagnostics.
const maxErrorBody = 4 << 10

// Config holds connection parameters for an Elasticsearch cluster.
type Config struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// Store talks to a single Elasticsearch endpoint.
type Store struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewStore creates an Elasticsearch store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q", cfg.URL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Ping checks that the cluster answers.
func (s *Store) Ping(ctx context.Context) error {
	resp, err := s.send(ctx, db.OpPing, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(db.OpPing, resp)
	}
	return nil
}

// Close releases idle connections.
func (s *Store) Close() {
	s.client.CloseIdleConnections()
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for elasticsearch: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// send issues a request with an optional JSON body. Only transport failures
// are classified as unavailable; encoding or request construction errors are
// local and come back as a plain *db.Error.
func (s *Store) send(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &db.Error{Op: op, Err: fmt.Errorf("marshal: %w", err)}
		}
		r = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, r)
	if err != nil {
		return nil, &db.Error{Op: op, Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, db.Unavailable(op, err)
	}
	return resp, nil
}

// apiError is the Elasticsearch error envelope.
type apiError struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// statusError converts a non-success response. 5xx and 429 mark the cluster
// unavailable; index_not_found maps to db.ErrIndexNotFound.
func statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	cause := fmt.Errorf("status %d", resp.StatusCode)

	var ae apiError
	if err := json.Unmarshal(raw, &ae); err == nil && ae.Error.Type != "" {
		cause = fmt.Errorf("status %d: %s: %s", resp.StatusCode, ae.Error.Type, ae.Error.Reason)
		switch ae.Error.Type {
		case "index_not_found_exception":
			return &db.Error{Op: op, Err: fmt.Errorf("%w: %w", db.ErrIndexNotFound, cause)}
		case "resource_already_exists_exception":
			return &db.Error{Op: op, Err: fmt.Errorf("%w: %w", db.ErrIndexExists, cause)}
		}
	}

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return db.Unavailable(op, cause)
	}
	return &db.Error{Op: op, Err: cause}
}

func docPath(index, objectType, id string) string {
	return "/" + url.PathEscape(index) + "/" + url.PathEscape(objectType) + "/" + url.PathEscape(id)
}
