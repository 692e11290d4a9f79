package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/domain/search/diagnostic"
	"github.com/kailas-cloud/extsearch/internal/domain/search/request"
	"github.com/kailas-cloud/extsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/extsearch/internal/logger"
	healthuc "github.com/kailas-cloud/extsearch/internal/usecase/health"
)

// maxDocumentBytes bounds ingest request bodies.
const maxDocumentBytes = 32 << 20

// SearchService runs highlighted searches.
type SearchService interface {
	Search(ctx context.Context, req request.Request) (result.Batch, error)
}

// DocumentService serves and ingests documents.
type DocumentService interface {
	Text(ctx context.Context, collection, id string) (string, error)
	Stream(ctx context.Context, collection, id string) (io.Reader, error)
	Format(ctx context.Context, collection, id string) (string, error)
	Index(ctx context.Context, collection, id string, doc domain.Document) error
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the HTTP API.
type Server struct {
	search        SearchService
	documents     DocumentService
	health        HealthService
	batch         BatchService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, documents DocumentService, health HealthService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:    search,
		documents: documents,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrRemoteUnavailable, http.StatusBadGateway, CodeRemoteUnavailable),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search", s.Search)
	r.Route("/collections/{collection}/documents/{id}", func(r chi.Router) {
		r.Get("/", s.GetDocument)
		r.Put("/", s.IndexDocument)
		r.Get("/raw", s.GetDocumentRaw)
	})
	if s.batch != nil {
		r.Post("/collections/{collection}/documents", s.IndexDocuments)
	}
	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var (
		query  string
		limit  *int
		random *bool
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "q", q, &query); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter q: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter limit: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "random", q, &random); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter random: "+err.Error())
		return
	}

	req, err := request.New(query, derefInt(limit), random)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	batch, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSearchResponse(&batch))
}

// GetDocument handles GET /collections/{collection}/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	collection, id, ok := documentParams(w, r)
	if !ok {
		return
	}

	format, err := s.documents.Format(r.Context(), collection, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	text, err := s.documents.Text(r.Context(), collection, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DocumentResponse{
		ID:         id,
		Collection: collection,
		Format:     format,
		Text:       text,
	})
}

// GetDocumentRaw handles GET /collections/{collection}/documents/{id}/raw.
func (s *Server) GetDocumentRaw(w http.ResponseWriter, r *http.Request) {
	collection, id, ok := documentParams(w, r)
	if !ok {
		return
	}

	body, err := s.documents.Stream(r.Context(), collection, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		s.log(r).Warn("stream document", zap.String("id", id), zap.Error(err))
	}
}

// IndexDocument handles PUT /collections/{collection}/documents/{id}.
func (s *Server) IndexDocument(w http.ResponseWriter, r *http.Request) {
	collection, id, ok := documentParams(w, r)
	if !ok {
		return
	}

	var req IndexDocumentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc := domain.Document{Text: req.Text, Metadata: req.Metadata}
	if err := s.documents.Index(r.Context(), collection, id, doc); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

func documentParams(w http.ResponseWriter, r *http.Request) (collection, id string, ok bool) {
	err := runtime.BindStyledParameterWithLocation("simple", false, "collection",
		runtime.ParamLocationPath, chi.URLParam(r, "collection"), &collection)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter collection: "+err.Error())
		return "", "", false
	}
	err = runtime.BindStyledParameterWithLocation("simple", false, "id",
		runtime.ParamLocationPath, chi.URLParam(r, "id"), &id)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter id: "+err.Error())
		return "", "", false
	}
	return collection, id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns the client-facing message for a domain error.
// Collection mismatches are caller misconfiguration and are reported in full.
func safeDomainMessage(err error) string {
	var mismatch *domain.CollectionMismatchError
	if errors.As(err, &mismatch) {
		return mismatch.Error()
	}
	sentinels := []error{
		domain.ErrInvalidArgument,
		domain.ErrNotFound,
		domain.ErrRemoteUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// log returns the request logger, falling back to the server logger outside
// the router middleware.
func (s *Server) log(r *http.Request) *zap.Logger {
	return logpkg.FromContext(r.Context(), s.logger)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := s.log(r)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			logger.Warn("domain error", zap.String("path", r.URL.Path), zap.Error(err))
			return
		}
	}
	logger.Error("internal error", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

// NewSearchResponse converts an assembled batch into its wire form.
func NewSearchResponse(b *result.Batch) SearchResponse {
	items := make([]SearchResultItem, 0, len(b.Results))
	for i := range b.Results {
		items = append(items, searchResultToAPI(&b.Results[i]))
	}

	issues := make([]DiagnosticIssue, 0, len(b.Diagnostics.Issues()))
	for _, is := range b.Diagnostics.Issues() {
		item := DiagnosticIssue{
			Kind:   string(is.Kind),
			HitID:  is.HitID,
			Spans:  is.Spans,
			Reason: is.Reason,
		}
		if is.Fragment != diagnostic.NoFragment {
			f := is.Fragment
			item.Fragment = &f
		}
		issues = append(issues, item)
	}

	return SearchResponse{
		Results: items,
		Diagnostics: Diagnostics{
			MalformedHits:          b.Diagnostics.Count(diagnostic.MalformedHit),
			UnresolvableHighlights: b.Diagnostics.Count(diagnostic.UnresolvableHighlight),
			Issues:                 issues,
		},
	}
}

func searchResultToAPI(r *result.Result) SearchResultItem {
	item := SearchResultItem{
		ID:         r.ID(),
		Collection: r.Collection(),
		Title:      r.Title(),
		Metadata:   r.Metadata(),
		Highlights: make([]HighlightItem, 0, len(r.Highlights())),
	}
	if score, ok := r.Score(); ok {
		item.Score = &score
	}
	for _, h := range r.Highlights() {
		item.Highlights = append(item.Highlights, HighlightItem{Begin: h.Begin, End: h.End, Text: h.Text})
	}
	return item
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
