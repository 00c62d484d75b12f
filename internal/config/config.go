package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/research-agent/internal/chunker"
	"github.com/povarna/generative-ai-agents/research-agent/internal/database"
	"github.com/povarna/generative-ai-agents/research-agent/internal/guardrails"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "configs/research.yaml"

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	WebSearch   WebSearchConfig   `yaml:"web_search"`
	Redis       RedisConfig       `yaml:"redis"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Safety      SafetyConfig      `yaml:"safety"`
	LogLevel    string            `yaml:"log_level"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

type LLMConfig struct {
	Provider      string  `yaml:"provider"`
	AWSRegion     string  `yaml:"aws_region"`
	ClaudeModelID string  `yaml:"claude_model_id"`
	OpenAIKey     string  `yaml:"-"`
	OpenAIModelID string  `yaml:"openai_model_id"`
	MaxTokens     int     `yaml:"max_tokens"`
	Temperature   float64 `yaml:"temperature"`
	DisableRetry  bool    `yaml:"disable_retry"`
}

type EmbedderConfig struct {
	Provider  string `yaml:"provider"`
	ModelID   string `yaml:"model_id"`
	Dimension int    `yaml:"dimension"`
}

type VectorStoreConfig struct {
	Type       string          `yaml:"type"`
	Table      string          `yaml:"table"`
	SQLitePath string          `yaml:"sqlite_path"`
	Postgres   database.Config `yaml:"postgres"`
	MaxRetries int             `yaml:"max_retries"`
}

type WebSearchConfig struct {
	Endpoint  string        `yaml:"endpoint"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	// Allowlist holds registrable domains; empty allows everything.
	Allowlist []string `yaml:"allowlist"`
}

type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"-"`
	CacheEnabled bool          `yaml:"cache_enabled"`
	CachePrefix  string        `yaml:"cache_prefix"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	Stream       string        `yaml:"stream"`
	Group        string        `yaml:"group"`
	Consumer     string        `yaml:"consumer"`
	ResultPrefix string        `yaml:"result_prefix"`
	ResultTTL    time.Duration `yaml:"result_ttl"`
}

type ChunkerConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

type SafetyConfig struct {
	MaxPromptTokens int  `yaml:"max_prompt_tokens"`
	LLMValidation   bool `yaml:"llm_validation"`
}

// LoadConfig reads the YAML file named by RESEARCH_CONFIG_PATH (a missing
// file yields defaults) and applies environment overrides on top.
func LoadConfig() (*Config, error) {
	path := os.Getenv("RESEARCH_CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}

	// overlap 0 is a valid setting; default it before reading the file
	cfg := Config{Chunker: ChunkerConfig{Overlap: chunker.DefaultChunkOverlap}}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "18082"
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120 * time.Second
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 32 << 20
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "bedrock"
	}
	if cfg.LLM.AWSRegion == "" {
		cfg.LLM.AWSRegion = "us-east-1"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1024
	}

	if cfg.Embedder.Provider == "" {
		cfg.Embedder.Provider = "hash"
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 768
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Table == "" {
		cfg.VectorStore.Table = "research_chunks"
	}
	if cfg.VectorStore.SQLitePath == "" {
		cfg.VectorStore.SQLitePath = "research.db"
	}
	if cfg.VectorStore.MaxRetries == 0 {
		cfg.VectorStore.MaxRetries = 3
	}

	if cfg.WebSearch.Timeout == 0 {
		cfg.WebSearch.Timeout = 10 * time.Second
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.CachePrefix == "" {
		cfg.Redis.CachePrefix = "research:search:"
	}
	if cfg.Redis.CacheTTL == 0 {
		cfg.Redis.CacheTTL = 30 * time.Minute
	}
	if cfg.Redis.Stream == "" {
		cfg.Redis.Stream = "research-jobs"
	}
	if cfg.Redis.Group == "" {
		cfg.Redis.Group = "research-group"
	}
	if cfg.Redis.Consumer == "" {
		cfg.Redis.Consumer = "research-worker"
	}
	if cfg.Redis.ResultPrefix == "" {
		cfg.Redis.ResultPrefix = "research:result:"
	}
	if cfg.Redis.ResultTTL == 0 {
		cfg.Redis.ResultTTL = 24 * time.Hour
	}

	if cfg.Chunker.Size == 0 {
		cfg.Chunker.Size = chunker.DefaultChunkSize
	}

	if cfg.Safety.MaxPromptTokens == 0 {
		cfg.Safety.MaxPromptTokens = guardrails.DefaultMaxTokens
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("RESEARCH_API_PORT", cfg.Server.Port)

	cfg.LLM.Provider = getEnv("DEFAULT_LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.AWSRegion = getEnv("AWS_REGION", cfg.LLM.AWSRegion)
	cfg.LLM.ClaudeModelID = getEnv("CLAUDE_MODEL_ID", cfg.LLM.ClaudeModelID)
	cfg.LLM.OpenAIKey = getEnv("OPEN_AI_KEY", cfg.LLM.OpenAIKey)
	cfg.LLM.OpenAIModelID = getEnv("OPEN_AI_MODEL_ID", cfg.LLM.OpenAIModelID)
	cfg.LLM.MaxTokens = getEnvInt("LLM_MAX_TOKENS", cfg.LLM.MaxTokens)
	cfg.LLM.Temperature = getEnvFloat("LLM_TEMPERATURE", cfg.LLM.Temperature)
	cfg.LLM.DisableRetry = getEnvBool("LLM_DISABLE_RETRY", cfg.LLM.DisableRetry)

	cfg.Embedder.Provider = getEnv("EMBEDDING_PROVIDER", cfg.Embedder.Provider)
	cfg.Embedder.ModelID = getEnv("EMBEDDING_MODEL_ID", cfg.Embedder.ModelID)
	cfg.Embedder.Dimension = getEnvInt("EMBEDDING_DIMENSION", cfg.Embedder.Dimension)

	cfg.VectorStore.Type = getEnv("VECTOR_STORE", cfg.VectorStore.Type)
	cfg.VectorStore.SQLitePath = getEnv("SQLITE_PATH", cfg.VectorStore.SQLitePath)
	pg := &cfg.VectorStore.Postgres
	pg.Host = getEnv("RESEARCH_VECTOR_DB_HOST", pg.Host)
	pg.Port = getEnv("RESEARCH_VECTOR_DB_PORT", pg.Port)
	pg.User = getEnv("RESEARCH_VECTOR_DB_USER", pg.User)
	pg.Password = getEnv("RESEARCH_VECTOR_DB_PASSWORD", pg.Password)
	pg.Database = getEnv("RESEARCH_VECTOR_DB_DATABASE", pg.Database)
	pg.SSLMode = getEnv("RESEARCH_VECTOR_DB_SSLMODE", pg.SSLMode)

	if raw, ok := os.LookupEnv("ALLOWLISTED_DOMAINS"); ok {
		cfg.WebSearch.Allowlist = splitList(raw)
	}
	cfg.WebSearch.Timeout = getEnvDuration("SEARCH_TIMEOUT", cfg.WebSearch.Timeout)
	cfg.WebSearch.UserAgent = getEnv("SEARCH_USER_AGENT", cfg.WebSearch.UserAgent)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.CacheEnabled = getEnvBool("SEARCH_CACHE_ENABLED", cfg.Redis.CacheEnabled)
	cfg.Redis.CacheTTL = getEnvDuration("SEARCH_CACHE_TTL", cfg.Redis.CacheTTL)
	cfg.Redis.Stream = getEnv("RESEARCH_STREAM", cfg.Redis.Stream)
	cfg.Redis.Group = getEnv("RESEARCH_GROUP", cfg.Redis.Group)
	cfg.Redis.Consumer = getEnv("HOSTNAME", cfg.Redis.Consumer)

	cfg.Chunker.Size = getEnvInt("CHUNK_SIZE", cfg.Chunker.Size)
	cfg.Chunker.Overlap = getEnvInt("CHUNK_OVERLAP", cfg.Chunker.Overlap)

	cfg.Safety.MaxPromptTokens = getEnvInt("MAX_PROMPT_TOKENS", cfg.Safety.MaxPromptTokens)
	cfg.Safety.LLMValidation = getEnvBool("LLM_VALIDATION", cfg.Safety.LLMValidation)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "bedrock", "openai":
	default:
		return fmt.Errorf("unsupported llm provider: %s", c.LLM.Provider)
	}

	switch c.Embedder.Provider {
	case "hash", "bedrock", "openai":
	default:
		return fmt.Errorf("unsupported embedding provider: %s", c.Embedder.Provider)
	}
	if c.Embedder.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedder.Dimension)
	}

	switch c.VectorStore.Type {
	case "none", "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported vector store: %s", c.VectorStore.Type)
	}

	if c.Chunker.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.Chunker.Size)
	}
	if c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.Size {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", c.Chunker.Size, c.Chunker.Overlap)
	}

	return nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
