package vectorstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps records in a map and ranks them by brute-force cosine similarity.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	records   map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
	}
}

func (s *MemoryStore) EnsureIndex(ctx context.Context, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == 0 {
		s.dimension = dimension
	}
	return nil
}

func (s *MemoryStore) Upsert(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		if s.dimension != 0 && len(record.Vector) != s.dimension {
			return fmt.Errorf("record %s: %w", record.ID, ErrDimensionMismatch)
		}
	}

	for _, record := range records {
		vector := make([]float32, len(record.Vector))
		copy(vector, record.Vector)
		s.records[record.ID] = Record{
			ID:       record.ID,
			Vector:   vector,
			Metadata: CopyMetadata(record.Metadata),
		}
	}
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		return []Match{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]Match, 0, len(s.records))
	for _, record := range s.records {
		matches = append(matches, Match{
			ID:       record.ID,
			Score:    CosineSimilarity(vector, record.Vector),
			Metadata: CopyMetadata(record.Metadata),
		})
	}

	return RankMatches(matches, topK), nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Close() error {
	return nil
}
