package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/povarna/generative-ai-agents/research-agent/internal/vectorstore"
	"github.com/rs/zerolog"
)

type chunkRow struct {
	ID        string `db:"id"`
	Metadata  string `db:"metadata"`
	Embedding string `db:"embedding"`
}

// Store persists vectors as JSON in SQLite and ranks them by brute-force
// cosine similarity. Suitable for local corpora.
type Store struct {
	db     *sqlx.DB
	logger *zerolog.Logger

	mu        sync.Mutex
	dimension int
}

func NewStore(dbPath string, logger *zerolog.Logger) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", dbPath, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

func (s *Store) EnsureIndex(ctx context.Context, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension != 0 {
		return nil
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			source_id TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '{}',
			embedding TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_id)`,
	}

	for _, tableSQL := range tables {
		if _, err := s.db.ExecContext(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create sqlite schema: %w", err)
		}
	}

	s.dimension = dimension
	s.logger.Info().Int("dimension", dimension).Msg("SQLite vector index ready")
	return nil
}

func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	s.mu.Lock()
	dimension := s.dimension
	s.mu.Unlock()

	for _, record := range records {
		if dimension != 0 && len(record.Vector) != dimension {
			return fmt.Errorf("record %s: %w", record.ID, vectorstore.ErrDimensionMismatch)
		}

		metadataJSON, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %s: %w", record.ID, err)
		}
		embeddingJSON, err := json.Marshal(record.Vector)
		if err != nil {
			return fmt.Errorf("failed to marshal embedding for %s: %w", record.ID, err)
		}

		sourceID, _ := record.Metadata["source_id"].(string)
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO chunks (id, source_id, metadata, embedding, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
			record.ID, sourceID, string(metadataJSON), string(embeddingJSON),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert chunk %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	if topK <= 0 {
		return []vectorstore.Match{}, nil
	}

	var rows []chunkRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, metadata, embedding FROM chunks`); err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	matches := make([]vectorstore.Match, 0, len(rows))
	for _, row := range rows {
		var embedding []float32
		if err := json.Unmarshal([]byte(row.Embedding), &embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding for %s: %w", row.ID, err)
		}

		metadata := map[string]any{}
		if err := json.Unmarshal([]byte(row.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", row.ID, err)
		}

		matches = append(matches, vectorstore.Match{
			ID:       row.ID,
			Score:    vectorstore.CosineSimilarity(vector, embedding),
			Metadata: metadata,
		})
	}

	return vectorstore.RankMatches(matches, topK), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
