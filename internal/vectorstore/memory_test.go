package vectorstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_QueryRanking(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.EnsureIndex(ctx, 2))

	require.NoError(t, store.Upsert(ctx, []Record{
		{ID: "a", Vector: []float32{1, 0}, Metadata: map[string]any{"text": "a"}},
		{ID: "b", Vector: []float32{0.7, 0.7}, Metadata: map[string]any{"text": "b"}},
		{ID: "c", Vector: []float32{0, 1}, Metadata: map[string]any{"text": "c"}},
	}))

	matches, err := store.Query(ctx, []float32{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "b", matches[1].ID)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, "a", matches[0].Metadata["text"])
}

func TestMemoryStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Upsert(ctx, []Record{{ID: "x", Vector: []float32{1, 0}, Metadata: map[string]any{"v": 1}}}))
	require.NoError(t, store.Upsert(ctx, []Record{{ID: "x", Vector: []float32{0, 1}, Metadata: map[string]any{"v": 2}}}))

	assert.Equal(t, 1, store.Len())

	matches, err := store.Query(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].Metadata["v"])
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestMemoryStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.EnsureIndex(ctx, 3))
	// second call keeps the original dimension
	require.NoError(t, store.EnsureIndex(ctx, 5))

	err := store.Upsert(ctx, []Record{{ID: "bad", Vector: []float32{1, 2}}})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_EmptyAndZeroTopK(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	matches, err := store.Query(ctx, []float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)

	require.NoError(t, store.Upsert(ctx, []Record{{ID: "a", Vector: []float32{1}}}))
	matches, err = store.Query(ctx, []float32{1}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Upsert(ctx, []Record{{ID: fmt.Sprintf("doc::%d", i%5), Vector: []float32{float32(i), 1}}})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.Query(ctx, []float32{1, 1}, 3)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, store.Len())
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}

func TestDistanceToScore(t *testing.T) {
	assert.Equal(t, 1.0, DistanceToScore(0))
	assert.Equal(t, 0.75, DistanceToScore(0.25))
	assert.Equal(t, 0.0, DistanceToScore(1.5))
	assert.Equal(t, 1.0, DistanceToScore(-0.1))
}
