package extsearch

// Metadata keys carried by search results.
const (
	MetaSource    = "source"
	MetaURI       = "uri"
	MetaLanguage  = "language"
	MetaTimestamp = "timestamp"
)

// Highlight is an emphasized span of the original document text.
// Begin and End are half-open rune offsets.
type Highlight struct {
	Begin int
	End   int
	Text  string
}

// SearchResult is a single search hit.
type SearchResult struct {
	ID         string
	Collection string
	Title      string
	// Score is nil when the backend reports none or the order is randomized.
	Score      *float64
	Metadata   map[string]string
	Highlights []Highlight
}

// DiagnosticKind classifies a per-item problem.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagnosticMalformedHit          DiagnosticKind = "malformed_hit"
	DiagnosticUnresolvableHighlight DiagnosticKind = "unresolvable_highlight"
)

// Diagnostic describes a hit or fragment that was skipped or partially resolved.
type Diagnostic struct {
	Kind  DiagnosticKind
	HitID string
	// Fragment is the fragment index, or -1 when the whole hit is concerned.
	Fragment int
	Spans    int
	Reason   string
}

// SearchResponse is the outcome of one query.
type SearchResponse struct {
	Results     []SearchResult
	Diagnostics []Diagnostic
}

// Document is an indexable document.
type Document struct {
	Text     string
	Metadata map[string]string
}

// BatchItem is one document of a batch ingest.
type BatchItem struct {
	ID       string
	Document Document
}

// BatchResult is the outcome of one item in a batch operation.
type BatchResult struct {
	ID  string
	OK  bool
	Err error
}

// BatchResponse holds per-item results in request order.
type BatchResponse struct {
	Succeeded int
	Failed    int
	Results   []BatchResult
}

// SearchOptions configures a search query. Zero values select the client defaults.
type SearchOptions struct {
	Limit  int
	Random *bool
}
