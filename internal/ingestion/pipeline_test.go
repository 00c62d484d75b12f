package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

type recordingIndexer struct {
	docs []models.Document
	err  error
}

func (r *recordingIndexer) Ingest(ctx context.Context, docs []models.Document) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.docs = append(r.docs, docs...)
	return 3, nil
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected map[string]any
	}{
		{"empty", "", map[string]any{}},
		{"blank", "   ", map[string]any{}},
		{"object", `{"author":"Ada","year":2024}`, map[string]any{"author": "Ada", "year": float64(2024)}},
		{"array", `[1,2]`, map[string]any{"meta": "[1,2]"}},
		{"string", `"hello"`, map[string]any{"meta": `"hello"`}},
		{"null", `null`, map[string]any{"meta": "null"}},
		{"invalid", `{author:`, map[string]any{"meta": "{author:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMetadata(tt.raw))
		})
	}
}

func TestDocumentIDFromFilename(t *testing.T) {
	assert.Equal(t, "annual-report", DocumentIDFromFilename("annual-report.pdf"))
	assert.Equal(t, "notes", DocumentIDFromFilename("/tmp/uploads/notes.txt"))
	assert.Equal(t, "archive.tar", DocumentIDFromFilename("archive.tar.gz"))

	for _, name := range []string{"", ".pdf"} {
		_, err := uuid.Parse(DocumentIDFromFilename(name))
		assert.NoError(t, err, "expected uuid for %q", name)
	}
}

func TestParser_ExtractText(t *testing.T) {
	p := NewParser()

	text, mode, err := p.ExtractText("notes.TXT", []byte("plain notes"))
	require.NoError(t, err)
	assert.Equal(t, "plain notes", text)
	assert.Equal(t, "text", mode)

	_, _, err = p.ExtractText("sheet.xlsx", []byte("data"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, _, err = p.ExtractText("empty.txt", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, _, err = p.ExtractText("broken.pdf", []byte("this is not a pdf"))
	assert.Error(t, err)
}

func TestPipeline_IngestFile(t *testing.T) {
	indexer := &recordingIndexer{}
	pipeline := NewPipeline(nil, indexer, newTestLogger())

	result, err := pipeline.IngestFile(context.Background(), "wind-report.txt", []byte("Offshore wind grew."), `{"team":"energy"}`)
	require.NoError(t, err)

	assert.Equal(t, models.IngestResult{Status: "ingested", Mode: "text", Count: 1, DocumentID: "wind-report", Chunks: 3}, result)
	require.Len(t, indexer.docs, 1)
	assert.Equal(t, "Offshore wind grew.", indexer.docs[0].Text)
	assert.Equal(t, "energy", indexer.docs[0].Metadata["team"])
	assert.Equal(t, "wind-report.txt", indexer.docs[0].Metadata["filename"])
}

func TestPipeline_IngestFile_EmptyText(t *testing.T) {
	indexer := &recordingIndexer{}
	pipeline := NewPipeline(nil, indexer, newTestLogger())

	_, err := pipeline.IngestFile(context.Background(), "blank.txt", []byte("  \n "), "")
	assert.ErrorIs(t, err, models.ErrEmptyDocumentText)
	assert.Empty(t, indexer.docs)

	_, err = pipeline.IngestFile(context.Background(), "scan.pdf", []byte("garbage"), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPipeline_IngestPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solar.md")
	require.NoError(t, os.WriteFile(path, []byte("# Solar\nPanels got cheaper."), 0o600))

	indexer := &recordingIndexer{}
	result, err := NewPipeline(nil, indexer, newTestLogger()).IngestPath(context.Background(), path, "not json")
	require.NoError(t, err)

	assert.Equal(t, "solar", result.DocumentID)
	assert.Equal(t, "not json", indexer.docs[0].Metadata["meta"])

	_, err = NewPipeline(nil, indexer, newTestLogger()).IngestPath(context.Background(), filepath.Join(t.TempDir(), "missing.txt"), "")
	assert.Error(t, err)
}

func TestPipeline_IngestDocument(t *testing.T) {
	indexer := &recordingIndexer{}
	pipeline := NewPipeline(nil, indexer, newTestLogger())

	result, err := pipeline.IngestDocument(context.Background(), models.Document{Text: "Some text"})
	require.NoError(t, err)

	_, err = uuid.Parse(result.DocumentID)
	assert.NoError(t, err)
	assert.Equal(t, models.IngestModeText, result.Mode)
	assert.NotNil(t, indexer.docs[0].Metadata)
}

func TestPipeline_IndexerFailure(t *testing.T) {
	indexer := &recordingIndexer{err: errors.New("store unavailable")}
	pipeline := NewPipeline(nil, indexer, newTestLogger())

	_, err := pipeline.IngestDocument(context.Background(), models.Document{ID: "a", Text: "text"})
	assert.ErrorContains(t, err, "store unavailable")
}
