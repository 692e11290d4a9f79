package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/extsearch/internal/domain"
)

// MaxQueryLength is the maximum allowed search query length.
const MaxQueryLength = 4096

// Request is a validated search query.
type Request struct {
	query      string
	limit      int
	randomized *bool
}

// New validates and normalizes search parameters.
// A zero limit and a nil randomized flag defer to the repository configuration.
// Limits above domain.MaxResultSize are clamped.
func New(query string, limit int, randomized *bool) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("query is required: %w", domain.ErrInvalidArgument)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidArgument)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("limit must not be negative: %w", domain.ErrInvalidArgument)
	}
	if limit > domain.MaxResultSize {
		limit = domain.MaxResultSize
	}
	return Request{query: query, limit: limit, randomized: randomized}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Limit returns the requested result count, or fallback when none was given.
func (r *Request) Limit(fallback int) int {
	if r.limit == 0 {
		return fallback
	}
	return r.limit
}

// Randomized reports whether ranking should be randomized, or fallback when
// the caller did not say.
func (r *Request) Randomized(fallback bool) bool {
	if r.randomized == nil {
		return fallback
	}
	return *r.randomized
}
