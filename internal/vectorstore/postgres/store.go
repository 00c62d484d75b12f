package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/povarna/generative-ai-agents/research-agent/internal/vectorstore"
	"github.com/rs/zerolog"
)

const DefaultTable = "research_chunks"

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store keeps chunk vectors in a pgvector column and ranks them with the
// cosine distance operator.
type Store struct {
	pool   *pgxpool.Pool
	table  string
	logger *zerolog.Logger

	mu      sync.Mutex
	indexed bool
}

func NewStore(pool *pgxpool.Pool, table string, logger *zerolog.Logger) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	return &Store{
		pool:   pool,
		table:  table,
		logger: logger,
	}, nil
}

func (s *Store) EnsureIndex(ctx context.Context, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexed {
		return nil
	}
	if dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", dimension)
	}

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			source_id TEXT NOT NULL DEFAULT '',
			chunk_index INTEGER NOT NULL DEFAULT 0,
			content TEXT NOT NULL DEFAULT '',
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, s.table, dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)`, s.table, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_source_idx ON %s (source_id)`, s.table, s.table),
	}

	for _, statement := range statements {
		if _, err := s.pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	s.indexed = true
	s.logger.Info().Str("table", s.table).Int("dimension", dimension).Msg("Vector index ready")
	return nil
}

// Upsert writes all records in a single transaction.
func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if we don't commit

	query := fmt.Sprintf(`
		INSERT INTO %s (id, source_id, chunk_index, content, metadata, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			source_id = EXCLUDED.source_id,
			chunk_index = EXCLUDED.chunk_index,
			content = EXCLUDED.content,
			metadata = EXCLUDED.metadata,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()`, s.table)

	for _, record := range records {
		metadataJSON, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %s: %w", record.ID, err)
		}

		_, err = tx.Exec(ctx, query,
			record.ID,
			stringField(record.Metadata, "source_id"),
			intField(record.Metadata, "chunk"),
			stringField(record.Metadata, "text"),
			metadataJSON,
			pgvector.NewVector(record.Vector),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug().Int("records", len(records)).Msg("Chunks upserted")
	return nil
}

func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	if topK <= 0 {
		return []vectorstore.Match{}, nil
	}

	query := fmt.Sprintf(`
	SELECT
	  id,
	  metadata,
	  embedding <=> $1 AS distance
	FROM %s
	ORDER BY distance ASC
	LIMIT $2`, s.table)

	rows, err := s.pool.Query(ctx, query, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("Unable to query the database: %w", err)
	}
	defer rows.Close()

	matches := []vectorstore.Match{}
	for rows.Next() {
		var (
			id           string
			metadataJSON []byte
			distance     float64
		)
		if err := rows.Scan(&id, &metadataJSON, &distance); err != nil {
			return nil, fmt.Errorf("Failed to scan row: %w", err)
		}

		metadata := map[string]any{}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata for %s: %w", id, err)
			}
		}

		matches = append(matches, vectorstore.Match{
			ID:       id,
			Score:    vectorstore.DistanceToScore(distance),
			Metadata: metadata,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return matches, nil
}

// Close is a no-op: the pool is owned by the caller.
func (s *Store) Close() error {
	return nil
}

func stringField(metadata map[string]any, key string) string {
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}

func intField(metadata map[string]any, key string) int {
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
