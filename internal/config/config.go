package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/extsearch/internal/domain"
	"github.com/kailas-cloud/extsearch/internal/domain/highlight"
)

// Backend drivers.
const (
	DriverElastic = "elastic"
	DriverRedis   = "redis"
	DriverBleve   = "bleve"
)

// Config holds the extsearch service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Backend    BackendConfig    `yaml:"backend"`
	Repository RepositoryConfig `yaml:"repository"`
	Highlight  HighlightConfig  `yaml:"highlight"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// BackendConfig selects and configures the search backend.
type BackendConfig struct {
	Driver           string        `yaml:"driver"` // elastic, redis, bleve (default: elastic)
	ReadinessTimeout int           `yaml:"readiness_timeout_sec"`
	Elastic          ElasticConfig `yaml:"elastic"`
	Redis            RedisConfig   `yaml:"redis"`
}

// ElasticConfig holds Elasticsearch connection settings.
type ElasticConfig struct {
	URL        string `yaml:"url"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// RedisConfig holds Redis (RediSearch) connection settings.
type RedisConfig struct {
	Addrs      []string `yaml:"addrs"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	DB         int      `yaml:"db"`
	TimeoutSec int      `yaml:"timeout_sec"`
}

// RepositoryConfig describes the document layout inside the backend index.
type RepositoryConfig struct {
	IndexName      string `yaml:"index_name"`
	ObjectType     string `yaml:"object_type"`
	TextField      string `yaml:"text_field"`
	HighlightField string `yaml:"highlight_field"`
	MetadataKey    string `yaml:"metadata_key"`
	ResultSize     int    `yaml:"result_size"`
	RandomOrder    bool   `yaml:"random_order"`
	QueryType      string `yaml:"query_type"` // term (default), match
}

// HighlightConfig holds fragment marker and resolution settings.
type HighlightConfig struct {
	OpenMarker   string `yaml:"open_marker"`
	CloseMarker  string `yaml:"close_marker"`
	Strategy     string `yaml:"strategy"` // exact (default), aligned
	MaxTrim      *int   `yaml:"max_trim"`
	FragmentSize int    `yaml:"fragment_size"`
	Fragments    int    `yaml:"fragments"`
}

// Default highlight markers, as emitted by Elasticsearch.
const (
	DefaultOpenMarker  = "<em>"
	DefaultCloseMarker = "</em>"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, when present, seeds the environment first.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document, expanding ${VAR} references, and applies defaults.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Backend.Driver == "" {
		c.Backend.Driver = DriverElastic
	}
	if c.Backend.ReadinessTimeout <= 0 {
		c.Backend.ReadinessTimeout = 10
	}
	if c.Backend.Elastic.TimeoutSec <= 0 {
		c.Backend.Elastic.TimeoutSec = 10
	}
	if c.Backend.Redis.TimeoutSec <= 0 {
		c.Backend.Redis.TimeoutSec = 5
	}

	r := c.Repository.Layout()
	c.Repository.ObjectType = r.ObjectType
	c.Repository.TextField = r.TextField
	c.Repository.HighlightField = r.HighlightField
	c.Repository.MetadataKey = r.MetadataKey
	c.Repository.ResultSize = r.ResultSize
	if c.Repository.QueryType == "" {
		c.Repository.QueryType = string(domain.QueryTerm)
	}

	if c.Highlight.OpenMarker == "" && c.Highlight.CloseMarker == "" {
		c.Highlight.OpenMarker = DefaultOpenMarker
		c.Highlight.CloseMarker = DefaultCloseMarker
	}
	if c.Highlight.Strategy == "" {
		c.Highlight.Strategy = string(highlight.StrategyExact)
	}
	if c.Highlight.MaxTrim == nil {
		n := highlight.DefaultMaxTrim
		c.Highlight.MaxTrim = &n
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Backend.Driver {
	case DriverElastic:
		u, err := url.Parse(c.Backend.Elastic.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("backend.elastic.url must be an http(s) URL, got %q", c.Backend.Elastic.URL)
		}
	case DriverRedis:
		if len(c.Backend.Redis.Addrs) == 0 {
			return errors.New("backend.redis.addrs is required")
		}
	case DriverBleve:
	default:
		return fmt.Errorf("backend.driver must be one of elastic, redis, bleve, got %q", c.Backend.Driver)
	}

	if c.Repository.IndexName == "" {
		return errors.New("repository.index_name is required")
	}
	if _, err := domain.ParseQueryType(c.Repository.QueryType); err != nil {
		return fmt.Errorf("repository.query_type: %w", err)
	}

	if c.Highlight.OpenMarker == "" || c.Highlight.CloseMarker == "" {
		return errors.New("highlight.open_marker and highlight.close_marker must both be set")
	}
	if c.Highlight.OpenMarker == c.Highlight.CloseMarker {
		return errors.New("highlight.open_marker and highlight.close_marker must differ")
	}
	if _, err := highlight.ParseStrategy(c.Highlight.Strategy); err != nil {
		return fmt.Errorf("highlight.strategy: %w", err)
	}
	if c.Highlight.MaxTrim != nil && *c.Highlight.MaxTrim < 0 {
		return fmt.Errorf("highlight.max_trim must not be negative, got %d", *c.Highlight.MaxTrim)
	}
	if c.Highlight.FragmentSize < 0 || c.Highlight.Fragments < 0 {
		return errors.New("highlight.fragment_size and highlight.fragments must not be negative")
	}
	return nil
}

// Layout converts the repository section into the domain layout.
func (r RepositoryConfig) Layout() domain.Repository {
	return domain.Repository{
		IndexName:      r.IndexName,
		ObjectType:     r.ObjectType,
		TextField:      r.TextField,
		HighlightField: r.HighlightField,
		MetadataKey:    r.MetadataKey,
		ResultSize:     r.ResultSize,
		RandomOrder:    r.RandomOrder,
		QueryType:      domain.QueryType(r.QueryType),
	}.WithDefaults()
}

// ResolverOptions converts the highlight section into resolver options.
func (h HighlightConfig) ResolverOptions() highlight.Options {
	opts := highlight.DefaultOptions()
	if s, err := highlight.ParseStrategy(h.Strategy); err == nil {
		opts.Strategy = s
	}
	if h.MaxTrim != nil {
		opts.MaxTrim = *h.MaxTrim
	}
	return opts
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
