package config

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/domain/highlight"
)

func validConfig() Config {
	cfg := Config{
		HTTP:       HTTPConfig{Port: 8080},
		Backend:    BackendConfig{Elastic: ElasticConfig{URL: "http://localhost:9200"}},
		Repository: RepositoryConfig{IndexName: "docs"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Backend.Driver != DriverElastic {
		t.Errorf("driver = %q", cfg.Backend.Driver)
	}
	if cfg.Repository.ObjectType != domain.DefaultObjectType ||
		cfg.Repository.TextField != domain.DefaultTextField ||
		cfg.Repository.MetadataKey != domain.DefaultMetadataKey {
		t.Errorf("repository defaults not applied: %+v", cfg.Repository)
	}
	if cfg.Repository.ResultSize != domain.DefaultResultSize {
		t.Errorf("result_size = %d", cfg.Repository.ResultSize)
	}
	if cfg.Highlight.OpenMarker != "<em>" || cfg.Highlight.CloseMarker != "</em>" {
		t.Errorf("markers = %q %q", cfg.Highlight.OpenMarker, cfg.Highlight.CloseMarker)
	}
	if cfg.Highlight.MaxTrim == nil || *cfg.Highlight.MaxTrim != highlight.DefaultMaxTrim {
		t.Errorf("max_trim = %v", cfg.Highlight.MaxTrim)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"unknown driver", func(c *Config) { c.Backend.Driver = "solr" }, "backend.driver"},
		{"elastic without url", func(c *Config) { c.Backend.Elastic.URL = "" }, "backend.elastic.url"},
		{"elastic bad scheme", func(c *Config) { c.Backend.Elastic.URL = "ftp://x" }, "backend.elastic.url"},
		{"redis without addrs", func(c *Config) { c.Backend.Driver = DriverRedis }, "backend.redis.addrs"},
		{"missing index", func(c *Config) { c.Repository.IndexName = "" }, "repository.index_name"},
		{"bad query type", func(c *Config) { c.Repository.QueryType = "fuzzy" }, "repository.query_type"},
		{"one marker", func(c *Config) { c.Highlight.CloseMarker = "" }, "must both be set"},
		{"same markers", func(c *Config) { c.Highlight.CloseMarker = "<em>" }, "must differ"},
		{"bad strategy", func(c *Config) { c.Highlight.Strategy = "fuzzy" }, "highlight.strategy"},
		{"negative trim", func(c *Config) { n := -1; c.Highlight.MaxTrim = &n }, "highlight.max_trim"},
		{"negative fragments", func(c *Config) { c.Highlight.Fragments = -1 }, "highlight.fragment_size"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_BleveNeedsNoConnection(t *testing.T) {
	cfg := validConfig()
	cfg.Backend.Driver = DriverBleve
	cfg.Backend.Elastic.URL = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("EXTSEARCH_TEST_INDEX", "articles")
	data := []byte(`
http:
  port: 8080
backend:
  driver: redis
  redis:
    addrs: ["${EXTSEARCH_TEST_REDIS:-localhost:6379}"]
repository:
  index_name: ${EXTSEARCH_TEST_INDEX}
  random_order: true
  query_type: match
highlight:
  strategy: aligned
  max_trim: 0
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Repository.IndexName != "articles" {
		t.Errorf("index_name = %q", cfg.Repository.IndexName)
	}
	if cfg.Backend.Redis.Addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.Backend.Redis.Addrs)
	}

	layout := cfg.Repository.Layout()
	if !layout.RandomOrder || layout.QueryType != domain.QueryMatch {
		t.Errorf("layout = %+v", layout)
	}

	opts := cfg.Highlight.ResolverOptions()
	if opts.Strategy != highlight.StrategyAligned {
		t.Errorf("strategy = %q", opts.Strategy)
	}
	if opts.MaxTrim != 0 {
		t.Errorf("explicit max_trim 0 must disable trimming, got %d", opts.MaxTrim)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("EXTSEARCH_SET", "v")
	got := string(expandEnvVars([]byte("${EXTSEARCH_SET} ${EXTSEARCH_UNSET:-d} ${EXTSEARCH_UNSET}.")))
	if got != "v d ." {
		t.Errorf("expandEnvVars() = %q", got)
	}
}
