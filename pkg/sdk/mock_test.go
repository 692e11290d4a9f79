package extsearch

import (
	"context"
	"io"

	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/domain/search/request"
	"github.com/kailas-cloud/extsearch/internal/domain/search/result"
	batchuc "github.com/kailas-cloud/extsearch/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/extsearch/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req request.Request) (result.Batch, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req request.Request) (result.Batch, error) {
	return m.searchFn(ctx, req)
}

// --- documentUseCase mock ---

type mockDocumentUC struct {
	textFn   func(ctx context.Context, col, id string) (string, error)
	streamFn func(ctx context.Context, col, id string) (io.Reader, error)
	formatFn func(ctx context.Context, col, id string) (string, error)
	indexFn  func(ctx context.Context, col, id string, doc domain.Document) error
}

func (m *mockDocumentUC) Text(ctx context.Context, col, id string) (string, error) {
	return m.textFn(ctx, col, id)
}

func (m *mockDocumentUC) Stream(ctx context.Context, col, id string) (io.Reader, error) {
	return m.streamFn(ctx, col, id)
}

func (m *mockDocumentUC) Format(ctx context.Context, col, id string) (string, error) {
	return m.formatFn(ctx, col, id)
}

func (m *mockDocumentUC) Index(ctx context.Context, col, id string, doc domain.Document) error {
	return m.indexFn(ctx, col, id, doc)
}

// --- indexUseCase / healthUseCase mocks ---

type mockIndexUC struct {
	ensureFn func(ctx context.Context) error
}

func (m *mockIndexUC) EnsureIndex(ctx context.Context) error { return m.ensureFn(ctx) }

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(searchSvc searchUseCase, docSvc documentUseCase) *Client {
	return &Client{
		index:     "docs",
		searchSvc: searchSvc,
		docSvc:    docSvc,
	}
}

// --- batchUseCase mock ---

type mockBatchUC struct {
	indexFn func(ctx context.Context, col string, items []batchuc.Item) []batchuc.Result
}

func (m *mockBatchUC) Index(ctx context.Context, col string, items []batchuc.Item) []batchuc.Result {
	return m.indexFn(ctx, col, items)
}
