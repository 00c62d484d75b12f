package chunker

import (
	"fmt"

	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
)

const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 200
)

type Chunker struct {
	ChunkSize    int
	ChunkOverlap int
}

func NewChunker(chunkSize, overlap int) *Chunker {
	return &Chunker{
		ChunkSize:    chunkSize,
		ChunkOverlap: overlap,
	}
}

// ChunkDocument splits a document and assigns "{doc_id}::{index}" ids.
func (c *Chunker) ChunkDocument(doc models.Document) []models.Chunk {
	pieces := Split(doc.Text, c.ChunkSize, c.ChunkOverlap)

	chunks := make([]models.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, models.Chunk{
			ID:       ChunkID(doc.ID, i),
			Text:     piece,
			SourceID: doc.ID,
			Index:    i,
		})
	}
	return chunks
}

func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s::%d", docID, index)
}

// Split cuts text into windows of size characters where consecutive windows
// share overlap characters. The last window may be shorter.
//
// size <= 0 returns the whole text as a single chunk. An overlap that is not
// smaller than size is clamped to size/4; a negative overlap is treated as 0.
func Split(text string, size, overlap int) []string {
	if text == "" {
		return []string{}
	}
	if size <= 0 {
		return []string{text}
	}
	if overlap >= size {
		overlap = size / 4
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(text)
	n := len(runes)

	results := []string{}
	start := 0
	for start < n {
		end := start + size
		if end > n {
			end = n
		}
		results = append(results, string(runes[start:end]))
		if end == n {
			break
		}
		start = end - overlap
	}

	return results
}
