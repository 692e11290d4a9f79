package extsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/extsearch/internal/app"
	"github.com/kailas-cloud/extsearch/internal/config"
	"github.com/kailas-cloud/extsearch/internal/db"
	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/domain/search/request"
	"github.com/kailas-cloud/extsearch/internal/domain/search/result"
	batchuc "github.com/kailas-cloud/extsearch/internal/usecase/batch"
)

// Internal interfaces, swapped in tests.
type searchUseCase interface {
	Search(ctx context.Context, req request.Request) (result.Batch, error)
}

type documentUseCase interface {
	Text(ctx context.Context, collection, id string) (string, error)
	Stream(ctx context.Context, collection, id string) (io.Reader, error)
	Format(ctx context.Context, collection, id string) (string, error)
	Index(ctx context.Context, collection, id string, doc domain.Document) error
}

type batchUseCase interface {
	Index(ctx context.Context, collection string, items []batchuc.Item) []batchuc.Result
}

type indexUseCase interface {
	EnsureIndex(ctx context.Context) error
}

// Client is the extsearch SDK entry point.
type Client struct {
	store     db.Store
	index     string
	searchSvc searchUseCase
	docSvc    documentUseCase
	batchSvc  batchUseCase
	indexSvc  indexUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the search backend.
// The provided context is used for the initial readiness check.
// With the bleve backend the index is created right away.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}
	cfg := &cc.cfg

	if cfg.Backend.Driver == "" {
		return nil, errors.New("extsearch: backend required (use WithElastic, WithRedis or WithBleve)")
	}
	if cfg.Repository.IndexName == "" {
		return nil, errors.New("extsearch: index required (use WithIndex)")
	}
	cfg.ApplyDefaults()
	if cfg.Highlight.OpenMarker == "" || cfg.Highlight.OpenMarker == cfg.Highlight.CloseMarker {
		return nil, fmt.Errorf("extsearch: invalid markers %q %q", cfg.Highlight.OpenMarker, cfg.Highlight.CloseMarker)
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := app.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("extsearch: %w", err)
	}

	c := wireClient(store, cfg, cc.logger, obs)
	if cfg.Backend.Driver == config.DriverBleve {
		if err := c.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	return c, nil
}

func wireClient(store db.Store, cfg *config.Config, logger *zap.Logger, obs *observer) *Client {
	a := app.Wire(store, cfg, logger)
	return &Client{
		store:     a.Store,
		index:     a.Layout.IndexName,
		searchSvc: a.Search,
		docSvc:    a.Documents,
		batchSvc:  a.Batch,
		indexSvc:  a.Indexes,
		healthSvc: a.Health,
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks backend connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the configured index with a text mapping when it does not exist.
func (c *Client) EnsureIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_index", start, err) }()

	if err = c.indexSvc.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// Collection returns the name of the configured index.
func (c *Client) Collection() string { return c.index }

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs}
}

// Documents returns the document service for a given collection.
// Every operation fails with ErrInvalidArgument unless collection is the configured index.
func (c *Client) Documents(collection string) *DocumentService {
	return &DocumentService{collection: collection, svc: c.docSvc, batch: c.batchSvc, obs: c.obs}
}
