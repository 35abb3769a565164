// Package config provides unified configuration loading for the catalog
// assistant. Supports a YAML file plus environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings for the assistant.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Cache         CacheConfig         `yaml:"cache"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Generation    GenerationConfig    `yaml:"generation"`
	Retrieval     RetrievalConfig     `yaml:"retrieval"`
	FlowAPI       FlowAPIConfig       `yaml:"flow_api"`
	Audit         AuditConfig         `yaml:"audit"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	APIKey           string        `yaml:"api_key"`
}

// CatalogConfig locates the service-definition file.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig holds retrieval-result cache settings.
type CacheConfig struct {
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// EmbeddingConfig holds embedding model settings. The API key comes from
// the OPENROUTER_API_KEY environment variable, never from the file.
type EmbeddingConfig struct {
	APIKey    string `yaml:"-"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	BatchSize int    `yaml:"batch_size"`
}

// GenerationConfig holds answer-generation model settings.
type GenerationConfig struct {
	APIKey    string `yaml:"-"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
}

// RetrievalConfig holds routing/retrieval settings.
type RetrievalConfig struct {
	TopK         int           `yaml:"top_k"`
	MinScore     float32       `yaml:"min_score"`
	Timeout      time.Duration `yaml:"timeout"`
	CacheResults bool          `yaml:"cache_results"`
}

// FlowAPIConfig holds external workflow API settings.
type FlowAPIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"-"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuditConfig holds routing-decision audit settings.
type AuditConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Driver   string         `yaml:"driver"` // sqlite3 or postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds SQLite settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds Postgres settings.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment
// overrides. An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns development defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     60 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			Path: "configs/catalog.yaml",
		},
		Cache: CacheConfig{
			Driver:     "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
			},
		},
		Embedding: EmbeddingConfig{
			Model:     "google/gemini-embedding-001",
			BatchSize: 64,
		},
		Generation: GenerationConfig{
			Model:     "google/gemini-2.5-flash",
			MaxTokens: 512,
		},
		Retrieval: RetrievalConfig{
			TopK:         5,
			MinScore:     0.3,
			Timeout:      10 * time.Second,
			CacheResults: true,
		},
		FlowAPI: FlowAPIConfig{
			Timeout: 15 * time.Second,
		},
		Audit: AuditConfig{
			Enabled: true,
			Driver:  "sqlite3",
			SQLite: SQLiteConfig{
				Path: "/tmp/catalog-assistant.db",
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "catalog-assistant",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}
	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}
	if c.Audit.Enabled && c.Audit.Driver != "sqlite3" && c.Audit.Driver != "postgres" {
		return fmt.Errorf("invalid audit driver: %s", c.Audit.Driver)
	}
	if c.Retrieval.TopK < 1 || c.Retrieval.TopK > 20 {
		return fmt.Errorf("retrieval top_k must be between 1 and 20")
	}
	return nil
}

// AuditDSN returns the connection string for the configured audit driver.
func (c *Config) AuditDSN() string {
	if c.Audit.Driver == "sqlite3" {
		return c.Audit.SQLite.Path
	}
	return c.Audit.Postgres.DSN
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SERVER_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
		cfg.Generation.APIKey = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("GENERATION_MODEL"); v != "" {
		cfg.Generation.Model = v
	}
	if v := os.Getenv("FLOW_API_URL"); v != "" {
		cfg.FlowAPI.BaseURL = v
	}
	if v := os.Getenv("FLOW_API_KEY"); v != "" {
		cfg.FlowAPI.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "sqlite:") {
			cfg.Audit.Driver = "sqlite3"
			cfg.Audit.SQLite.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.Audit.Driver = "postgres"
			cfg.Audit.Postgres.DSN = v
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
