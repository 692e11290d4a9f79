// Package app is the composition root shared by the CLI and the embeddable client.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/extsearch/internal/config"
	"github.com/kailas-cloud/extsearch/internal/db"
	dbBleve "github.com/kailas-cloud/extsearch/internal/db/bleve"
	dbElastic "github.com/kailas-cloud/extsearch/internal/db/elastic"
	"github.com/kailas-cloud/extsearch/internal/db/instrumented"
	dbRedis "github.com/kailas-cloud/extsearch/internal/db/redis"
	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/domain/highlight"
	"github.com/kailas-cloud/extsearch/internal/metrics"
	documentrepo "github.com/kailas-cloud/extsearch/internal/repository/document"
	searchrepo "github.com/kailas-cloud/extsearch/internal/repository/search"
	batchuc "github.com/kailas-cloud/extsearch/internal/usecase/batch"
	documentuc "github.com/kailas-cloud/extsearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/extsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/extsearch/internal/usecase/search"
)

// App holds the wired services of one configured repository.
type App struct {
	Store     db.Store
	Layout    domain.Repository
	Search    *searchuc.Service
	Documents *documentuc.Service
	Batch     *batchuc.Service
	Health    *healthuc.Service
	Indexes   *documentrepo.Repo
}

// NewStore creates the backend store selected by cfg.Backend.Driver.
func NewStore(cfg *config.Config) (db.Store, error) {
	switch cfg.Backend.Driver {
	case config.DriverElastic:
		s, err := dbElastic.NewStore(dbElastic.Config{
			URL:      cfg.Backend.Elastic.URL,
			Username: cfg.Backend.Elastic.Username,
			Password: cfg.Backend.Elastic.Password,
			Timeout:  time.Duration(cfg.Backend.Elastic.TimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("create elastic store: %w", err)
		}
		return s, nil
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Backend.Redis.Addrs,
			Username: cfg.Backend.Redis.Username,
			Password: cfg.Backend.Redis.Password,
			DB:       cfg.Backend.Redis.DB,
			Timeout:  time.Duration(cfg.Backend.Redis.TimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		return s, nil
	case config.DriverBleve:
		return dbBleve.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend driver %q", cfg.Backend.Driver)
	}
}

// Connect creates the configured store and waits until it answers.
func Connect(ctx context.Context, cfg *config.Config) (db.Store, error) {
	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.Backend.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("backend not ready: %w", err)
	}
	return store, nil
}

// Markers returns the emphasis markers fragments will carry. The embedded
// bleve backend always emits its own ansi markers.
func Markers(cfg *config.Config) (open, closing string) {
	if cfg.Backend.Driver == config.DriverBleve {
		return dbBleve.OpenMarker, dbBleve.CloseMarker
	}
	return cfg.Highlight.OpenMarker, cfg.Highlight.CloseMarker
}

// Wire builds the services on top of store. The store is instrumented with
// backend metrics under the driver label.
func Wire(store db.Store, cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	store = instrumented.Wrap(store, cfg.Backend.Driver, logger)
	layout := cfg.Repository.Layout()
	open, closing := Markers(cfg)

	searchRepo := searchrepo.New(store, layout, searchrepo.Highlighting{
		OpenTag:      open,
		CloseTag:     closing,
		FragmentSize: cfg.Highlight.FragmentSize,
		Fragments:    cfg.Highlight.Fragments,
	})
	docRepo := documentrepo.New(store, layout)

	resolver := highlight.NewResolver(highlight.NewMarkerTokenizer(open, closing), cfg.Highlight.ResolverOptions())
	asm := searchuc.NewAssembler(resolver, layout.IndexName, logger)

	documents := documentuc.New(docRepo, layout)

	return &App{
		Store:     store,
		Layout:    layout,
		Search:    searchuc.New(searchRepo, docRepo, asm, layout, metrics.SearchRecorder{}, logger),
		Documents: documents,
		Batch:     batchuc.New(documents, layout.IndexName),
		Health:    healthuc.New(store, store, layout.IndexName),
		Indexes:   docRepo,
	}
}

// Close releases the backend store.
func (a *App) Close() {
	a.Store.Close()
}
