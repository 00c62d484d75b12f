package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/rs/zerolog"
)

// Indexer stores documents for retrieval and reports how many chunks it wrote.
type Indexer interface {
	Ingest(ctx context.Context, docs []models.Document) (int, error)
}

type Pipeline struct {
	parser  *Parser
	indexer Indexer
	logger  *zerolog.Logger
}

func NewPipeline(parser *Parser, indexer Indexer, logger *zerolog.Logger) *Pipeline {
	if parser == nil {
		parser = NewParser()
	}
	return &Pipeline{
		parser:  parser,
		indexer: indexer,
		logger:  logger,
	}
}

// IngestFile ingests an uploaded file. The document id is the file name
// without its extension; rawMetadata is parsed with ParseMetadata.
func (p *Pipeline) IngestFile(ctx context.Context, filename string, data []byte, rawMetadata string) (models.IngestResult, error) {
	p.logger.Info().Str("file", filename).Int("bytes", len(data)).Msg("Starting ingestion")

	text, mode, err := p.parser.ExtractText(filename, data)
	if err != nil {
		return models.IngestResult{}, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidInput, filename, err)
	}

	doc := models.Document{
		ID:       DocumentIDFromFilename(filename),
		Text:     text,
		Metadata: ParseMetadata(rawMetadata),
	}
	if _, ok := doc.Metadata["filename"]; !ok {
		doc.Metadata["filename"] = filepath.Base(filename)
	}

	return p.ingest(ctx, doc, mode)
}

// IngestPath reads a file from disk and ingests it like an upload.
func (p *Pipeline) IngestPath(ctx context.Context, path string, rawMetadata string) (models.IngestResult, error) {
	path = strings.TrimSpace(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return models.IngestResult{}, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.IngestFile(ctx, path, data, rawMetadata)
}

// IngestDocument ingests text supplied directly. An empty id gets a UUID.
func (p *Pipeline) IngestDocument(ctx context.Context, doc models.Document) (models.IngestResult, error) {
	if strings.TrimSpace(doc.ID) == "" {
		doc.ID = uuid.New().String()
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}
	return p.ingest(ctx, doc, models.IngestModeText)
}

func (p *Pipeline) ingest(ctx context.Context, doc models.Document, mode string) (models.IngestResult, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return models.IngestResult{}, models.ErrEmptyDocumentText
	}

	chunks, err := p.indexer.Ingest(ctx, []models.Document{doc})
	if err != nil {
		return models.IngestResult{}, fmt.Errorf("failed to store document %s: %w", doc.ID, err)
	}

	p.logger.Info().
		Str("doc_id", doc.ID).
		Str("mode", mode).
		Int("chunks", chunks).
		Msg("Ingestion complete")

	return models.IngestResult{
		Status:     "ingested",
		Mode:       mode,
		Count:      1,
		DocumentID: doc.ID,
		Chunks:     chunks,
	}, nil
}
