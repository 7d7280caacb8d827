package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for lorevec.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Cache     CacheConfig     `yaml:"cache"`
	Reindex   ReindexConfig   `yaml:"reindex"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Provider  string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g. "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // environment variable for the API key
	BaseURL   string `yaml:"base_url"`    // override for OpenAI-compatible endpoints
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// RetrieveConfig holds search defaults.
type RetrieveConfig struct {
	Limit     int     `yaml:"limit"`
	Threshold float64 `yaml:"threshold"` // minimum cosine similarity in [0,1]
}

// CacheConfig holds context cache configuration.
type CacheConfig struct {
	TTL           Duration `yaml:"ttl"`
	SweepInterval Duration `yaml:"sweep_interval"`
}

// Duration wraps time.Duration so YAML can carry values like "30s" or "5m".
type Duration time.Duration

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// ReindexConfig holds bulk reindex configuration.
type ReindexConfig struct {
	Concurrency int `yaml:"concurrency"` // parallel embedding calls
}

// ServerConfig holds admin server configuration.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Enabled:   false,
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
			BatchSize: 100,
		},
		Retrieve: RetrieveConfig{
			Limit:     5,
			Threshold: 0.5,
		},
		Cache: CacheConfig{
			TTL:           Duration(5 * time.Minute),
			SweepInterval: Duration(time.Minute),
		},
		Reindex: ReindexConfig{
			Concurrency: 4,
		},
		Server: ServerConfig{
			ListenAddr: ":8780",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks values that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	if c.Retrieve.Limit < 1 {
		return fmt.Errorf("retrieve.limit must be >= 1, got %d", c.Retrieve.Limit)
	}
	if c.Retrieve.Threshold < 0 || c.Retrieve.Threshold > 1 {
		return fmt.Errorf("retrieve.threshold must be in [0,1], got %f", c.Retrieve.Threshold)
	}
	if c.Reindex.Concurrency < 1 {
		return fmt.Errorf("reindex.concurrency must be >= 1, got %d", c.Reindex.Concurrency)
	}
	switch c.Embedding.Provider {
	case "openai", "ollama", "mock":
	default:
		return fmt.Errorf("unknown embedding provider: %q", c.Embedding.Provider)
	}
	return nil
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for lorevec.yaml,
// then .lorevec/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "lorevec.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".lorevec", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DBPath returns the path to the lore database.
func DBPath(dir string) string {
	return filepath.Join(dir, ".lorevec", "lore.db")
}

// EnsureDataDir ensures the .lorevec directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".lorevec"), 0755)
}
