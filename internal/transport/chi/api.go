package chi

// ErrorCode is a stable, machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeNotFound          ErrorCode = "not_found"
	CodeRemoteUnavailable ErrorCode = "remote_unavailable"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Results     []SearchResultItem `json:"results"`
	Diagnostics Diagnostics        `json:"diagnostics"`
}

// SearchResultItem is one assembled hit.
type SearchResultItem struct {
	ID         string            `json:"id"`
	Collection string            `json:"collection"`
	Title      string            `json:"title"`
	Score      *float64          `json:"score,omitempty"`
	Metadata   map[string]string `json:"metadata"`
	Highlights []HighlightItem   `json:"highlights"`
}

// HighlightItem is a resolved highlight in rune offsets.
type HighlightItem struct {
	Begin int    `json:"begin"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Diagnostics summarizes per-item problems of one search.
type Diagnostics struct {
	MalformedHits          int               `json:"malformed_hits"`
	UnresolvableHighlights int               `json:"unresolvable_highlights"`
	Issues                 []DiagnosticIssue `json:"issues"`
}

// DiagnosticIssue is one recorded problem.
type DiagnosticIssue struct {
	Kind     string `json:"kind"`
	HitID    string `json:"hit_id"`
	Fragment *int   `json:"fragment,omitempty"`
	Spans    int    `json:"spans"`
	Reason   string `json:"reason"`
}

// DocumentResponse is the body of GET /collections/{collection}/documents/{id}.
type DocumentResponse struct {
	ID         string `json:"id"`
	Collection string `json:"collection"`
	Format     string `json:"format"`
	Text       string `json:"text"`
}

// IndexDocumentRequest is the body of PUT /collections/{collection}/documents/{id}.
type IndexDocumentRequest struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// BatchIndexRequest is the body of POST /collections/{collection}/documents.
type BatchIndexRequest struct {
	Documents []BatchDocument `json:"documents"`
}

// BatchDocument is one document of a batch ingest.
type BatchDocument struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// BatchIndexResponse reports the outcome of every batch item in request order.
type BatchIndexResponse struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []BatchItemResult `json:"results"`
}

// BatchItemResult is the outcome of one batch item.
type BatchItemResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
