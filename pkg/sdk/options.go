package extsearch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/extsearch/internal/config"
	"github.com/kailas-cloud/extsearch/internal/domain/highlight"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	cfg config.Config

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithElastic configures the client to query an Elasticsearch cluster.
func WithElastic(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Backend.Driver = config.DriverElastic
		c.cfg.Backend.Elastic.URL = url
	})
}

// WithElasticAuth sets basic auth credentials for Elasticsearch.
func WithElasticAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Backend.Elastic.Username = username
		c.cfg.Backend.Elastic.Password = password
	})
}

// WithRedis configures the client to query a Redis instance with the search module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Backend.Driver = config.DriverRedis
		c.cfg.Backend.Redis.Addrs = []string{addr}
		c.cfg.Backend.Redis.Password = password
	})
}

// WithBleve keeps the index in process memory. Useful for tests and small corpora.
func WithBleve() Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Backend.Driver = config.DriverBleve
	})
}

// WithIndex sets the backend index (the only collection served).
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Repository.IndexName = name
	})
}

// WithObjectType sets the document type inside the index. Default: "document".
func WithObjectType(t string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Repository.ObjectType = t
	})
}

// WithTextField sets the dotted path of the full document text. Default: "text".
func WithTextField(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Repository.TextField = path
	})
}

// WithHighlightField sets the field the backend highlights. Default: the text field.
func WithHighlightField(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Repository.HighlightField = path
	})
}

// WithMetadataKey sets the field holding the metadata mapping. Default: "metadata".
func WithMetadataKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Repository.MetadataKey = key
	})
}

// WithResultSize sets the default number of results per query.
func WithResultSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Repository.ResultSize = n
	})
}

// WithRandomOrder randomizes result order by default. Scores are then omitted.
func WithRandomOrder() Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Repository.RandomOrder = true
	})
}

// WithMatchQuery analyzes the query text instead of matching it as a single term.
func WithMatchQuery() Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Repository.QueryType = "match"
	})
}

// WithMarkers sets the emphasis markers the backend wraps matches with.
// Defaults: "<em>" and "</em>". Ignored by the bleve backend.
func WithMarkers(open, closing string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Highlight.OpenMarker = open
		c.cfg.Highlight.CloseMarker = closing
	})
}

// WithAlignedHighlights enables diff-based alignment for fragments that
// differ from the document text by normalization (e.g. collapsed whitespace).
func WithAlignedHighlights() Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Highlight.Strategy = string(highlight.StrategyAligned)
	})
}

// WithMaxTrim bounds the boundary trimming applied to truncated fragments.
// Zero disables trimming.
func WithMaxTrim(runes int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Highlight.MaxTrim = &runes
	})
}

// WithFragments sets the fragment size (characters) and the number of fragments
// requested per hit. Zero keeps the backend default.
func WithFragments(size, count int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Highlight.FragmentSize = size
		c.cfg.Highlight.Fragments = count
	})
}

// WithReadinessTimeout bounds the initial wait for the backend. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Backend.ReadinessTimeout = int(d.Seconds())
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
