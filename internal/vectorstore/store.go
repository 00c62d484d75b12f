package vectorstore

import (
	"context"
	"errors"
)

var ErrDimensionMismatch = errors.New("vector dimension does not match index dimension")

type Record struct {
	ID       string
	Vector   []float32
	Metadata map[string]any
}

type Match struct {
	ID       string
	Score    float64
	Metadata map[string]any
}

// Store is a similarity index. Upsert and Query are individually atomic;
// concurrent upserts of the same id are last-writer-wins.
type Store interface {
	// EnsureIndex creates the index at most once; an existing index is success.
	EnsureIndex(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, records []Record) error
	// Query returns at most topK matches ordered by descending Score.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	Close() error
}

// DistanceToScore converts a cosine distance (0 identical, 2 opposite) into a
// similarity score clamped to [0, 1].
func DistanceToScore(distance float64) float64 {
	score := 1.0 - distance

	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}

	return score
}
