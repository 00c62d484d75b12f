package mcpadapter

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/research-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
)

type Researcher interface {
	Run(ctx context.Context, req models.ResearchRequest) models.ResearchResponse
}

type QueryValidator interface {
	ValidateQuery(ctx context.Context, query string) guardrails.ValidationResult
}

type DocumentIngester interface {
	IngestDocument(ctx context.Context, doc models.Document) (models.IngestResult, error)
}

// ResearchInput is the MCP tool input schema (matches HTTP API field names).
type ResearchInput struct {
	Query         string `json:"query" jsonschema:"research question"`
	MaxWebResults int    `json:"max_web_results,omitempty" jsonschema:"number of web results to use (default: 5, max: 20)"`
	MaxRAGChunks  int    `json:"max_rag_chunks,omitempty" jsonschema:"number of stored passages to use (default: 5, max: 50)"`
}

type IngestTextInput struct {
	ID       string         `json:"id,omitempty" jsonschema:"document id, generated when empty"`
	Text     string         `json:"text" jsonschema:"document text"`
	Metadata map[string]any `json:"metadata,omitempty" jsonschema:"metadata stored with every chunk"`
}

// NewResearchHandler returns a tool handler that runs the research pipeline.
// Pass the returned function to mcp.AddTool.
func NewResearchHandler(researcher Researcher, validator QueryValidator) func(context.Context, *mcp.CallToolRequest, ResearchInput) (*mcp.CallToolResult, models.ResearchResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ResearchInput) (*mcp.CallToolResult, models.ResearchResponse, error) {
		researchRequest := models.ResearchRequest{
			Query:         input.Query,
			MaxWebResults: input.MaxWebResults,
			MaxRAGChunks:  input.MaxRAGChunks,
		}
		researchRequest.SetDefaults()
		if err := researchRequest.Validate(); err != nil {
			return nil, models.ResearchResponse{}, err
		}

		if validation := validator.ValidateQuery(ctx, researchRequest.Query); !validation.IsValid {
			return nil, models.ResearchResponse{}, errors.New(validation.Reason)
		}

		return nil, researcher.Run(ctx, researchRequest), nil
	}
}

// NewIngestTextHandler returns a tool handler that stores a text document.
func NewIngestTextHandler(ingester DocumentIngester) func(context.Context, *mcp.CallToolRequest, IngestTextInput) (*mcp.CallToolResult, models.IngestResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input IngestTextInput) (*mcp.CallToolResult, models.IngestResult, error) {
		result, err := ingester.IngestDocument(ctx, models.Document{
			ID:       input.ID,
			Text:     input.Text,
			Metadata: input.Metadata,
		})
		return nil, result, err
	}
}

// NewServer builds the MCP server with the research and ingest_text tools.
func NewServer(researcher Researcher, validator QueryValidator, ingester DocumentIngester) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "research-agent",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "research",
		Description: "Research a question using live web search and ingested documents, returning a sourced executive summary",
	}, NewResearchHandler(researcher, validator))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ingest_text",
		Description: "Store a text document so later research questions can retrieve it",
	}, NewIngestTextHandler(ingester))

	return server
}
