package rag

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/research-agent/internal/chunker"
	"github.com/povarna/generative-ai-agents/research-agent/internal/embedding"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/povarna/generative-ai-agents/research-agent/internal/vectorstore"
	"github.com/rs/zerolog"
)

const embedBatchSize = 25

// Service ingests documents into a vector store and answers similarity
// queries. A nil store means RAG is not configured: ingestion is a no-op and
// searches return no passages.
type Service struct {
	store    vectorstore.Store
	embedder embedding.Embedder
	chunker  *chunker.Chunker
	logger   *zerolog.Logger
}

func NewService(store vectorstore.Store, embedder embedding.Embedder, c *chunker.Chunker, logger *zerolog.Logger) *Service {
	if c == nil {
		c = chunker.NewChunker(chunker.DefaultChunkSize, chunker.DefaultChunkOverlap)
	}
	return &Service{
		store:    store,
		embedder: embedder,
		chunker:  c,
		logger:   logger,
	}
}

func (s *Service) Configured() bool {
	return s != nil && s.store != nil && s.embedder != nil
}

// Ingest chunks, embeds and upserts the documents. It returns the number of
// chunks written.
func (s *Service) Ingest(ctx context.Context, docs []models.Document) (int, error) {
	if !s.Configured() {
		s.logger.Warn().Int("documents", len(docs)).Msg("Vector store not configured, skipping ingestion")
		return 0, nil
	}

	var records []vectorstore.Record
	for _, doc := range docs {
		for _, chunk := range s.chunker.ChunkDocument(doc) {
			records = append(records, vectorstore.Record{
				ID:       chunk.ID,
				Metadata: chunkMetadata(doc.Metadata, chunk),
			})
		}
	}

	if len(records) == 0 {
		return 0, nil
	}

	if err := s.store.EnsureIndex(ctx, s.embedder.Dimension()); err != nil {
		return 0, fmt.Errorf("failed to ensure index: %w", err)
	}

	for start := 0; start < len(records); start += embedBatchSize {
		end := min(start+embedBatchSize, len(records))
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, record := range batch {
			texts[i] = record.Metadata["text"].(string)
		}

		vectors, err := s.embedder.Embed(ctx, texts)
		if err != nil {
			return start, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(vectors) != len(batch) {
			return start, fmt.Errorf("expected %d embeddings, got %d", len(batch), len(vectors))
		}
		for i := range batch {
			batch[i].Vector = vectors[i]
		}

		if err := s.store.Upsert(ctx, batch); err != nil {
			return start, fmt.Errorf("failed to upsert chunks: %w", err)
		}

		s.logger.Debug().Int("batch", start/embedBatchSize+1).Int("chunks", len(batch)).Msg("Batch complete")
	}

	s.logger.Info().Int("documents", len(docs)).Int("chunks", len(records)).Msg("Ingestion complete")
	return len(records), nil
}

// Search embeds the query and returns the topK closest passages.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]models.RetrievedPassage, error) {
	if !s.Configured() || topK <= 0 {
		return []models.RetrievedPassage{}, nil
	}

	vector, err := embedding.EmbedOne(ctx, s.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("Unable to generate query embedding: %w", err)
	}

	matches, err := s.store.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("Unable to query vector store: %w", err)
	}

	passages := make([]models.RetrievedPassage, 0, len(matches))
	for _, match := range matches {
		passages = append(passages, models.RetrievedPassage{
			ID:       match.ID,
			Score:    match.Score,
			Metadata: match.Metadata,
		})
	}
	return passages, nil
}

// chunkMetadata merges document metadata with the chunk's own keys; the
// chunk keys win on conflict.
func chunkMetadata(base map[string]any, chunk models.Chunk) map[string]any {
	metadata := vectorstore.CopyMetadata(base)
	metadata["source_id"] = chunk.SourceID
	metadata["chunk"] = chunk.Index
	metadata["text"] = chunk.Text
	return metadata
}
