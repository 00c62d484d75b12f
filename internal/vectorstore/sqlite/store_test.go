package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/povarna/generative-ai-agents/research-agent/internal/vectorstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := zerolog.Nop()
	store, err := NewStore(filepath.Join(t.TempDir(), "vectors.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.EnsureIndex(context.Background(), 2))
	return store
}

func TestStore_UpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, []vectorstore.Record{
		{ID: "report::0", Vector: []float32{1, 0}, Metadata: map[string]any{"source_id": "report", "chunk": 0, "text": "alpha"}},
		{ID: "report::1", Vector: []float32{0, 1}, Metadata: map[string]any{"source_id": "report", "chunk": 1, "text": "beta"}},
	}))

	matches, err := store.Query(ctx, []float32{0.1, 1}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, "report::1", matches[0].ID)
	assert.Equal(t, "beta", matches[0].Metadata["text"])
	// JSON numbers come back as float64
	assert.Equal(t, float64(1), matches[0].Metadata["chunk"])
}

func TestStore_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, []vectorstore.Record{{ID: "a", Vector: []float32{1, 0}, Metadata: map[string]any{"text": "old"}}}))
	require.NoError(t, store.Upsert(ctx, []vectorstore.Record{{ID: "a", Vector: []float32{1, 0}, Metadata: map[string]any{"text": "new"}}}))

	matches, err := store.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new", matches[0].Metadata["text"])
}

func TestStore_DimensionMismatchRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Upsert(ctx, []vectorstore.Record{
		{ID: "ok", Vector: []float32{1, 0}},
		{ID: "bad", Vector: []float32{1, 0, 0}},
	})
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)

	matches, err := store.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStore_EnsureIndexIdempotent(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.EnsureIndex(context.Background(), 2))
}
