package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/research-agent/internal/chunker"
	"github.com/povarna/generative-ai-agents/research-agent/internal/embedding"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/povarna/generative-ai-agents/research-agent/internal/vectorstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

const sampleText = `Offshore wind farms have grown quickly across the North Sea. ` +
	`Turbine capacity doubled over the last decade while costs fell sharply. ` +
	`Grid operators now face curtailment when wind output exceeds demand. ` +
	`Battery storage projects are being paired with wind parks to smooth supply. ` +
	`Hydrogen electrolysis is another option studied for surplus power. ` +
	`Permitting delays remain the main bottleneck for new projects.`

func TestService_IngestAndSearchRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	svc := NewService(store, embedding.NewHashEmbedder(512), chunker.NewChunker(120, 30), newTestLogger())

	written, err := svc.Ingest(ctx, []models.Document{
		{ID: "wind", Text: sampleText, Metadata: map[string]any{"title": "Wind report", "chunk": "overridden"}},
		{ID: "castles", Text: "Medieval castles were built with thick stone walls and moats for defence."},
	})
	require.NoError(t, err)

	expectedChunks := len(chunker.Split(sampleText, 120, 30)) + 1
	assert.Equal(t, expectedChunks, written)
	assert.Equal(t, expectedChunks, store.Len())

	chunks := chunker.Split(sampleText, 120, 30)
	target := chunks[2]

	passages, err := svc.Search(ctx, target, 3)
	require.NoError(t, err)
	require.NotEmpty(t, passages)

	ids := make([]string, 0, len(passages))
	for _, p := range passages {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, "wind::2")

	top := passages[0]
	assert.Equal(t, "wind::2", top.ID)
	assert.Equal(t, "wind", top.SourceID())
	assert.Equal(t, 2, top.ChunkIndex())
	assert.Equal(t, target, top.Text())
	assert.Equal(t, "Wind report", top.Metadata["title"])
}

func TestService_Unconfigured(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil, embedding.NewHashEmbedder(32), nil, newTestLogger())

	assert.False(t, svc.Configured())

	written, err := svc.Ingest(ctx, []models.Document{{ID: "a", Text: "text"}})
	require.NoError(t, err)
	assert.Zero(t, written)

	passages, err := svc.Search(ctx, "anything", 5)
	require.NoError(t, err)
	assert.NotNil(t, passages)
	assert.Empty(t, passages)
}

func TestService_EmptyDocument(t *testing.T) {
	svc := NewService(vectorstore.NewMemoryStore(), embedding.NewHashEmbedder(32), nil, newTestLogger())

	written, err := svc.Ingest(context.Background(), []models.Document{{ID: "empty", Text: ""}})
	require.NoError(t, err)
	assert.Zero(t, written)
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("provider unavailable")
}

func (failingEmbedder) Dimension() int { return 8 }

func TestService_EmbeddingFailure(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	svc := NewService(store, failingEmbedder{}, nil, newTestLogger())

	_, err := svc.Ingest(ctx, []models.Document{{ID: "doc", Text: strings.Repeat("x", 100)}})
	assert.Error(t, err)
	assert.Zero(t, store.Len())

	_, err = svc.Search(ctx, "query", 3)
	assert.Error(t, err)
}

func TestService_BatchesLargeDocuments(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	svc := NewService(store, embedding.NewHashEmbedder(64), chunker.NewChunker(10, 0), newTestLogger())

	written, err := svc.Ingest(ctx, []models.Document{{ID: "big", Text: strings.Repeat("abcdefghij", 60)}})
	require.NoError(t, err)
	assert.Equal(t, 60, written)
	assert.Equal(t, 60, store.Len())
}
