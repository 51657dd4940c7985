package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pkgRetry "github.com/askdocs/rag-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Database configuration (the vector index lives in Postgres/pgvector)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	LLMCfg      LLMConfig      `envPrefix:"LLM_"`
	EmbedderCfg EmbedderConfig `envPrefix:"EMBEDDER_"`

	// Retrieval configuration
	RetrievalCfg RetrievalConfig `envPrefix:"RETRIEVAL_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration: replaces the vector store and the language model
	// with deterministic in-process fakes, no Postgres needed
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// LLMConfig configures the chat-completions service used for answer
// generation. Temperature defaults to 0 for deterministic-leaning output.
type LLMConfig struct {
	HTTPClientConfig
	Model       string               `env:"MODEL" envDefault:"gpt-3.5-turbo"`
	Temperature float64              `env:"TEMPERATURE" envDefault:"0"`
	MaxTokens   int                  `env:"MAX_TOKENS" envDefault:"1024"`
	Retry       pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// EmbedderConfig configures the embeddings service shared by query-time
// retrieval and the offline indexer.
type EmbedderConfig struct {
	HTTPClientConfig
	Model      string               `env:"MODEL" envDefault:"text-embedding-3-small"`
	Dimensions int                  `env:"DIMENSIONS" envDefault:"1536"`
	BatchSize  int                  `env:"BATCH_SIZE" envDefault:"64"`
	CacheTTL   time.Duration        `env:"CACHE_TTL" envDefault:"10m"`
	Retry      pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// RetrievalConfig configures the similarity search over the vector index.
type RetrievalConfig struct {
	TopK      int    `env:"TOP_K" envDefault:"4"`
	TableName string `env:"TABLE_NAME" envDefault:"documents"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	APIKey                string        `env:"API_KEY"`
	Url                   string        `env:"SERVICE_URL"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag
	return cfg, nil
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if !cfg.EnableMocks {
		if cfg.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required unless ENABLE_MOCKS is set")
		}
		if cfg.LLMCfg.Url == "" {
			errs = append(errs, "LLM_SERVICE_URL is required unless ENABLE_MOCKS is set")
		}
		if cfg.EmbedderCfg.Url == "" {
			errs = append(errs, "EMBEDDER_SERVICE_URL is required unless ENABLE_MOCKS is set")
		}
	}

	if cfg.RetrievalCfg.TopK < 1 || cfg.RetrievalCfg.TopK > 50 {
		errs = append(errs, fmt.Sprintf("RETRIEVAL_TOP_K must be between 1 and 50, got %d", cfg.RetrievalCfg.TopK))
	}

	if cfg.LLMCfg.Temperature < 0 || cfg.LLMCfg.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("LLM_TEMPERATURE must be between 0 and 2, got %v", cfg.LLMCfg.Temperature))
	}

	if cfg.EmbedderCfg.Dimensions < 1 {
		errs = append(errs, fmt.Sprintf("EMBEDDER_DIMENSIONS must be positive, got %d", cfg.EmbedderCfg.Dimensions))
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
