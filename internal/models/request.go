package models

import "errors"

var (
	ErrEmptyQuery        = errors.New("query cannot be empty")
	ErrInvalidWebLimit   = errors.New("max_web_results must be between 0 and 20")
	ErrInvalidRAGLimit   = errors.New("max_rag_chunks must be between 0 and 50")
	ErrEmptyDocumentText = errors.New("document text cannot be empty")
)

type ResearchRequest struct {
	Query         string `json:"query" description:"Research question"`
	MaxWebResults int    `json:"max_web_results,omitempty" description:"Number of web results to use (default: 5)"`
	MaxRAGChunks  int    `json:"max_rag_chunks,omitempty" description:"Number of RAG passages to use (default: 5)"`
}

func (r *ResearchRequest) SetDefaults() {
	if r.MaxWebResults == 0 {
		r.MaxWebResults = DefaultMaxWebResults
	}
	if r.MaxRAGChunks == 0 {
		r.MaxRAGChunks = DefaultMaxRAGChunks
	}
}

func (r *ResearchRequest) Validate() error {
	if r.Query == "" {
		return ErrEmptyQuery
	}
	if r.MaxWebResults < 0 || r.MaxWebResults > 20 {
		return ErrInvalidWebLimit
	}
	if r.MaxRAGChunks < 0 || r.MaxRAGChunks > 50 {
		return ErrInvalidRAGLimit
	}
	return nil
}

type ResearchResponse struct {
	Summary     string             `json:"summary" description:"Executive summary, or the research draft when no summary was produced"`
	Sources     []string           `json:"sources" description:"Web sources consulted"`
	WebResults  []WebResult        `json:"web_results" description:"Raw web search hits"`
	RAGPassages []RetrievedPassage `json:"rag_passages" description:"Passages retrieved from the document store"`
}

// NewResearchResponse maps a terminal pipeline state. Slices are never nil.
func NewResearchResponse(state PipelineState) ResearchResponse {
	summary := state.Summary
	if summary == "" {
		summary = state.Draft
	}

	resp := ResearchResponse{
		Summary:     summary,
		Sources:     state.Sources,
		WebResults:  state.WebResults,
		RAGPassages: state.RAGPassages,
	}
	if resp.Sources == nil {
		resp.Sources = []string{}
	}
	if resp.WebResults == nil {
		resp.WebResults = []WebResult{}
	}
	if resp.RAGPassages == nil {
		resp.RAGPassages = []RetrievedPassage{}
	}
	return resp
}

const (
	IngestModePDF  = "pdf"
	IngestModeText = "text"
)

// IngestResult reports what an ingestion run stored.
type IngestResult struct {
	Status     string `json:"status" description:"Always \"ingested\" on success"`
	Mode       string `json:"mode" description:"Input kind: pdf or text"`
	Count      int    `json:"count" description:"Number of documents ingested"`
	DocumentID string `json:"doc_id" description:"Id of the ingested document"`
	Chunks     int    `json:"chunks" description:"Number of chunks stored"`
}
