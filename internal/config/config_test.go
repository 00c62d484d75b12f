package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "research.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfig_Success(t *testing.T) {
	configPath := writeConfig(t, `server:
  port: "9000"
  write_timeout: 30s
llm:
  provider: openai
  openai_model_id: gpt-4o-mini
  max_tokens: 512
  temperature: 0.1
embedder:
  provider: hash
  dimension: 256
vector_store:
  type: sqlite
  sqlite_path: /tmp/chunks.db
web_search:
  timeout: 5s
  allowlist:
    - wikipedia.org
    - nature.com
redis:
  cache_enabled: true
  cache_ttl: 10m
chunker:
  size: 400
  overlap: 50
safety:
  max_prompt_tokens: 1500
`)

	t.Setenv("RESEARCH_CONFIG_PATH", configPath)
	t.Setenv("RESEARCH_API_PORT", "")
	t.Setenv("DEFAULT_LLM_PROVIDER", "")
	t.Setenv("VECTOR_STORE", "")
	t.Setenv("EMBEDDING_PROVIDER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Server.Port)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("Expected write timeout 30s, got %s", cfg.Server.WriteTimeout)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.MaxTokens != 512 {
		t.Errorf("Unexpected llm config %+v", cfg.LLM)
	}
	if cfg.Embedder.Dimension != 256 {
		t.Errorf("Expected dimension 256, got %d", cfg.Embedder.Dimension)
	}
	if cfg.VectorStore.Type != "sqlite" || cfg.VectorStore.SQLitePath != "/tmp/chunks.db" {
		t.Errorf("Unexpected vector store config %+v", cfg.VectorStore)
	}
	if len(cfg.WebSearch.Allowlist) != 2 || cfg.WebSearch.Allowlist[1] != "nature.com" {
		t.Errorf("Unexpected allowlist %v", cfg.WebSearch.Allowlist)
	}
	if !cfg.Redis.CacheEnabled || cfg.Redis.CacheTTL != 10*time.Minute {
		t.Errorf("Unexpected redis config %+v", cfg.Redis)
	}
	if cfg.Chunker.Size != 400 || cfg.Chunker.Overlap != 50 {
		t.Errorf("Unexpected chunker config %+v", cfg.Chunker)
	}

	// Defaults fill what the file leaves out
	if cfg.Redis.Stream != "research-jobs" {
		t.Errorf("Expected default stream, got %s", cfg.Redis.Stream)
	}
	if cfg.Redis.ResultTTL != 24*time.Hour {
		t.Errorf("Expected default result ttl, got %s", cfg.Redis.ResultTTL)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("RESEARCH_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("DEFAULT_LLM_PROVIDER", "")
	t.Setenv("VECTOR_STORE", "")
	t.Setenv("EMBEDDING_PROVIDER", "")
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("CHUNK_OVERLAP", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.LLM.Provider != "bedrock" {
		t.Errorf("Expected bedrock provider, got %s", cfg.LLM.Provider)
	}
	if cfg.VectorStore.Type != "memory" {
		t.Errorf("Expected memory store, got %s", cfg.VectorStore.Type)
	}
	if cfg.Chunker.Size != 800 || cfg.Chunker.Overlap != 200 {
		t.Errorf("Unexpected chunker defaults %+v", cfg.Chunker)
	}
	if cfg.Safety.MaxPromptTokens != 2000 {
		t.Errorf("Expected 2000 prompt tokens, got %d", cfg.Safety.MaxPromptTokens)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	configPath := writeConfig(t, "vector_store:\n  type: memory\n")

	t.Setenv("RESEARCH_CONFIG_PATH", configPath)
	t.Setenv("VECTOR_STORE", "none")
	t.Setenv("EMBEDDING_PROVIDER", "")
	t.Setenv("DEFAULT_LLM_PROVIDER", "")
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("CHUNK_OVERLAP", "")
	t.Setenv("ALLOWLISTED_DOMAINS", " wikipedia.org, ,arxiv.org ")
	t.Setenv("SEARCH_CACHE_TTL", "90s")
	t.Setenv("LLM_DISABLE_RETRY", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.VectorStore.Type != "none" {
		t.Errorf("Expected env override to none, got %s", cfg.VectorStore.Type)
	}
	if strings.Join(cfg.WebSearch.Allowlist, ",") != "wikipedia.org,arxiv.org" {
		t.Errorf("Unexpected allowlist %v", cfg.WebSearch.Allowlist)
	}
	if cfg.Redis.CacheTTL != 90*time.Second {
		t.Errorf("Expected 90s cache ttl, got %s", cfg.Redis.CacheTTL)
	}
	if !cfg.LLM.DisableRetry {
		t.Error("Expected retry disabled")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Setenv("RESEARCH_CONFIG_PATH", writeConfig(t, "server: [unclosed"))

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"llm provider", func(c *Config) { c.LLM.Provider = "gemini" }, "unsupported llm provider"},
		{"embedder", func(c *Config) { c.Embedder.Provider = "sbert" }, "unsupported embedding provider"},
		{"dimension", func(c *Config) { c.Embedder.Dimension = -1 }, "embedding dimension"},
		{"store", func(c *Config) { c.VectorStore.Type = "pinecone" }, "unsupported vector store"},
		{"overlap", func(c *Config) { c.Chunker.Overlap = c.Chunker.Size }, "chunk overlap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			applyDefaults(&cfg)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_ZeroOverlapFromFile(t *testing.T) {
	t.Setenv("RESEARCH_CONFIG_PATH", writeConfig(t, "chunker:\n  size: 500\n  overlap: 0\n"))
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("CHUNK_OVERLAP", "")
	t.Setenv("DEFAULT_LLM_PROVIDER", "")
	t.Setenv("VECTOR_STORE", "")
	t.Setenv("EMBEDDING_PROVIDER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Chunker.Size != 500 || cfg.Chunker.Overlap != 0 {
		t.Errorf("Expected size 500 with zero overlap, got %+v", cfg.Chunker)
	}
}

func TestLoadConfig_OverlapDefaultWhenAbsent(t *testing.T) {
	t.Setenv("RESEARCH_CONFIG_PATH", writeConfig(t, "chunker:\n  size: 500\n"))
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("CHUNK_OVERLAP", "")
	t.Setenv("DEFAULT_LLM_PROVIDER", "")
	t.Setenv("VECTOR_STORE", "")
	t.Setenv("EMBEDDING_PROVIDER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Chunker.Overlap != 200 {
		t.Errorf("Expected default overlap 200, got %d", cfg.Chunker.Overlap)
	}
}
