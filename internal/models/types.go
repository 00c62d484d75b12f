package models

import "fmt"

const (
	DefaultMaxWebResults = 5
	DefaultMaxRAGChunks  = 5
)

type WebResult struct {
	Title   string `json:"title" description:"Result title"`
	Link    string `json:"link" description:"Result URL"`
	Snippet string `json:"snippet" description:"Short snippet shown by the search engine"`
}

type WebPage struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// RetrievedPassage is a chunk returned by a vector store query.
// Metadata carries source_id, chunk and text plus the owning document's metadata.
type RetrievedPassage struct {
	ID       string         `json:"id" description:"Chunk id ({doc_id}::{index})"`
	Score    float64        `json:"score" description:"Similarity score, higher is closer"`
	Metadata map[string]any `json:"metadata" description:"Chunk metadata"`
}

func (p RetrievedPassage) SourceID() string {
	return metadataString(p.Metadata, "source_id")
}

func (p RetrievedPassage) Text() string {
	return metadataString(p.Metadata, "text")
}

// ChunkIndex returns -1 when the chunk index is missing.
func (p RetrievedPassage) ChunkIndex() int {
	switch v := p.Metadata["chunk"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return -1
	}
}

func metadataString(metadata map[string]any, key string) string {
	v, ok := metadata[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

type Document struct {
	ID       string         `json:"id" description:"Document id, generated when empty"`
	Text     string         `json:"text" description:"Document text"`
	Metadata map[string]any `json:"metadata,omitempty" description:"Arbitrary document metadata"`
}

type Chunk struct {
	ID       string
	Text     string
	SourceID string
	Index    int
}

// PipelineState is passed by value from one stage to the next.
// Nil slices and empty strings mean "nothing produced yet".
type PipelineState struct {
	Question      string
	MaxWebResults int
	MaxRAGChunks  int
	WebResults    []WebResult
	WebPages      []WebPage
	RAGPassages   []RetrievedPassage
	Draft         string
	Summary       string
	Sources       []string
	// Rejected is set when the research stage refused the question.
	Rejected bool
}

func NewPipelineState(question string, maxWebResults, maxRAGChunks int) PipelineState {
	state := PipelineState{
		Question:      question,
		MaxWebResults: maxWebResults,
		MaxRAGChunks:  maxRAGChunks,
	}
	return state.WithDefaults()
}

func (s PipelineState) WithDefaults() PipelineState {
	if s.MaxWebResults <= 0 {
		s.MaxWebResults = DefaultMaxWebResults
	}
	if s.MaxRAGChunks <= 0 {
		s.MaxRAGChunks = DefaultMaxRAGChunks
	}
	return s
}
