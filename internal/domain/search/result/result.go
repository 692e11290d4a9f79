package result

import (
	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/domain/highlight"
	"github.com/kailas-cloud/extsearch/internal/domain/search/diagnostic"
)

// Result is a single assembled search hit. It is immutable after assembly.
type Result struct {
	id         string
	collection string
	score      *float64
	metadata   map[string]string
	highlights []highlight.Highlight
}

// New creates a search result. A nil score means the score is not meaningful.
func New(
	id, collection string, score *float64,
	metadata map[string]string, highlights []highlight.Highlight,
) Result {
	return Result{
		id: id, collection: collection, score: score,
		metadata: metadata, highlights: highlights,
	}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Collection returns the collection (index) the document belongs to.
func (r *Result) Collection() string { return r.collection }

// Title returns the display title. Documents carry no title of their own.
func (r *Result) Title() string { return r.id }

// Score returns the relevance score and whether it is set.
func (r *Result) Score() (float64, bool) {
	if r.score == nil {
		return 0, false
	}
	return *r.score, true
}

// Metadata returns the copied metadata fields.
func (r *Result) Metadata() map[string]string { return r.metadata }

// Meta returns one metadata value and whether it is set.
func (r *Result) Meta(key string) (string, bool) {
	v, ok := r.metadata[key]
	return v, ok
}

// Source returns the source metadata field.
func (r *Result) Source() (string, bool) { return r.Meta(domain.MetadataSource) }

// URI returns the uri metadata field.
func (r *Result) URI() (string, bool) { return r.Meta(domain.MetadataURI) }

// Language returns the language metadata field.
func (r *Result) Language() (string, bool) { return r.Meta(domain.MetadataLanguage) }

// Timestamp returns the timestamp metadata field.
func (r *Result) Timestamp() (string, bool) { return r.Meta(domain.MetadataTimestamp) }

// Highlights returns the resolved highlights in fragment order.
func (r *Result) Highlights() []highlight.Highlight { return r.highlights }

// Batch is the outcome of one query: results in backend order plus the
// per-item problems met while assembling them.
type Batch struct {
	Results     []Result
	Diagnostics diagnostic.Report
}
