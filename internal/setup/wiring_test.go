package setup

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/povarna/generative-ai-agents/research-agent/internal/config"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(store string) *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:      "openai",
			OpenAIKey:     "test-key",
			OpenAIModelID: "gpt-test",
			MaxTokens:     256,
		},
		Embedder:    config.EmbedderConfig{Provider: "hash", Dimension: 64},
		VectorStore: config.VectorStoreConfig{Type: store, Table: "research_chunks"},
		Chunker:     config.ChunkerConfig{Size: 200, Overlap: 20},
		Safety:      config.SafetyConfig{MaxPromptTokens: 2000},
	}
}

func TestWire_MemoryStore(t *testing.T) {
	logger := zerolog.Nop()

	deps, err := Wire(context.Background(), newTestConfig("memory"), &logger)
	require.NoError(t, err)
	defer deps.Close()

	assert.NotNil(t, deps.Pipeline)
	assert.NotNil(t, deps.Guardrails)
	assert.NotNil(t, deps.Searcher)
	assert.Nil(t, deps.Redis)
	assert.True(t, deps.RAG.Configured())

	result, err := deps.Ingestion.IngestDocument(context.Background(), models.Document{ID: "note", Text: "heat pumps move heat"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Chunks)

	passages, err := deps.RAG.Search(context.Background(), "heat pumps", 3)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "note::0", passages[0].ID)
}

func TestWireIngestion_NoStore(t *testing.T) {
	logger := zerolog.Nop()

	deps, err := WireIngestion(context.Background(), newTestConfig("none"), &logger)
	require.NoError(t, err)
	defer deps.Close()

	assert.False(t, deps.RAG.Configured())
	assert.Nil(t, deps.Pipeline)
}

func TestWireIngestion_SQLiteStore(t *testing.T) {
	logger := zerolog.Nop()
	cfg := newTestConfig("sqlite")
	cfg.VectorStore.SQLitePath = filepath.Join(t.TempDir(), "chunks.db")

	deps, err := WireIngestion(context.Background(), cfg, &logger)
	require.NoError(t, err)
	defer deps.Close()

	assert.True(t, deps.RAG.Configured())
	assert.Len(t, deps.closers, 1)
}

func TestWire_Errors(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"llm provider", func(c *config.Config) { c.LLM.Provider = "gemini" }},
		{"missing openai key", func(c *config.Config) { c.LLM.OpenAIKey = "" }},
		{"embedder", func(c *config.Config) { c.Embedder.Provider = "sbert" }},
		{"store", func(c *config.Config) { c.VectorStore.Type = "pinecone" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig("memory")
			tt.mutate(cfg)

			_, err := Wire(context.Background(), cfg, &logger)
			assert.Error(t, err)
		})
	}
}

func TestDependencies_CloseRunsInReverse(t *testing.T) {
	var order []int
	deps := &Dependencies{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return nil },
	}}

	deps.Close()
	deps.Close()

	assert.Equal(t, []int{2, 1}, order)
}
