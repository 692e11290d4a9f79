package chi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/extsearch/internal/domain"
	batchuc "github.com/kailas-cloud/extsearch/internal/usecase/batch"
)

// maxBatchBytes bounds batch ingest request bodies.
const maxBatchBytes = 128 << 20

// BatchService indexes several documents with per-item results.
type BatchService interface {
	Index(ctx context.Context, collection string, items []batchuc.Item) []batchuc.Result
}

// WithBatch enables POST /collections/{collection}/documents.
func (s *Server) WithBatch(b BatchService) *Server {
	s.batch = b
	return s
}

// IndexDocuments handles POST /collections/{collection}/documents.
func (s *Server) IndexDocuments(w http.ResponseWriter, r *http.Request) {
	var collection string
	err := runtime.BindStyledParameterWithLocation("simple", false, "collection",
		runtime.ParamLocationPath, chi.URLParam(r, "collection"), &collection)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter collection: "+err.Error())
		return
	}

	var req BatchIndexRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "documents must not be empty")
		return
	}

	items := make([]batchuc.Item, len(req.Documents))
	for i, d := range req.Documents {
		items[i] = batchuc.Item{ID: d.ID, Document: domain.Document{Text: d.Text, Metadata: d.Metadata}}
	}

	results := s.batch.Index(r.Context(), collection, items)

	resp := BatchIndexResponse{Results: make([]BatchItemResult, len(results))}
	for i, res := range results {
		item := BatchItemResult{ID: res.ID, Status: string(res.Status)}
		if res.Err != nil {
			item.Error = safeDomainMessage(res.Err)
			resp.Failed++
		} else {
			resp.Succeeded++
		}
		resp.Results[i] = item
	}
	if resp.Failed > 0 {
		s.log(r).Warn("batch items failed",
			zap.String("collection", collection),
			zap.Int("failed", resp.Failed),
			zap.Int("succeeded", resp.Succeeded),
		)
	}
	writeJSON(w, http.StatusOK, resp)
}
