package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/povarna/generative-ai-agents/research-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/research-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/rs/zerolog"
)

// ResearchAgent gathers web pages and stored passages for a question and
// asks the model for a findings draft.
type ResearchAgent struct {
	searcher  WebSearcher
	retriever PassageRetriever
	llmClient llm.LLMClient
	guard     *guardrails.Guardrails
	opts      llm.ModelOptions
	logger    *zerolog.Logger
}

// NewResearchAgent builds the agent. A nil searcher or retriever disables
// that source; a nil guard falls back to the static filters.
func NewResearchAgent(
	searcher WebSearcher,
	retriever PassageRetriever,
	llmClient llm.LLMClient,
	guard *guardrails.Guardrails,
	opts llm.ModelOptions,
	logger *zerolog.Logger,
) *ResearchAgent {
	if guard == nil {
		guard = guardrails.NewStaticGuardrails(logger)
	}
	return &ResearchAgent{
		searcher:  searcher,
		retriever: retriever,
		llmClient: llmClient,
		guard:     guard,
		opts:      opts,
		logger:    logger,
	}
}

func (a *ResearchAgent) Name() string {
	return "research_agent"
}

func (a *ResearchAgent) Run(ctx context.Context, state models.PipelineState) models.PipelineState {
	state = state.WithDefaults()

	if a.guard.IsInjection(state.Question) {
		a.logger.Warn().Msg("Research stage rejected question")
		state.Draft = InjectionRejectionMessage
		state.Rejected = true
		return state
	}

	state.WebResults, state.WebPages = a.searchWeb(ctx, state.Question, state.MaxWebResults)
	state.Sources = make([]string, 0, len(state.WebResults))
	for _, r := range state.WebResults {
		state.Sources = append(state.Sources, r.Link)
	}
	state.RAGPassages = a.searchPassages(ctx, state.Question, state.MaxRAGChunks)

	a.logger.Info().
		Int("web_pages", len(state.WebPages)).
		Int("rag_passages", len(state.RAGPassages)).
		Msg("Retrieval complete")

	prompt, ok := a.guard.PreparePrompt(BuildResearchPrompt(state.Question, state.WebPages, state.RAGPassages))
	if !ok {
		state.Draft = prompt
		return state
	}

	draft, err := generate(ctx, a.llmClient, a.opts, prompt)
	if err != nil {
		a.logger.Error().Err(err).Msg("Research model call failed")
		state.Draft = modelError(err)
		return state
	}

	state.Draft = draft
	return state
}

// searchWeb returns the search hits and their pages in hit order. Pages are
// fetched concurrently; a failed fetch leaves the page text empty.
func (a *ResearchAgent) searchWeb(ctx context.Context, question string, n int) ([]models.WebResult, []models.WebPage) {
	if a.searcher == nil {
		return []models.WebResult{}, []models.WebPage{}
	}

	results, err := a.searcher.Search(ctx, question, n)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Web search failed, continuing without web results")
		return []models.WebResult{}, []models.WebPage{}
	}

	pages := make([]models.WebPage, len(results))
	var wg sync.WaitGroup
	for i, result := range results {
		wg.Add(1)
		go func(i int, r models.WebResult) {
			defer wg.Done()
			text, err := a.searcher.FetchPage(ctx, r.Link)
			if err != nil {
				a.logger.Debug().Err(err).Str("url", r.Link).Msg("Page fetch failed")
				text = ""
			}
			pages[i] = models.WebPage{URL: r.Link, Title: r.Title, Text: text}
		}(i, result)
	}
	wg.Wait()

	return results, pages
}

func (a *ResearchAgent) searchPassages(ctx context.Context, question string, k int) []models.RetrievedPassage {
	if a.retriever == nil {
		return []models.RetrievedPassage{}
	}

	passages, err := a.retriever.Search(ctx, question, k)
	if err != nil {
		a.logger.Warn().Err(err).Msg("RAG search failed, continuing without passages")
		return []models.RetrievedPassage{}
	}
	if passages == nil {
		passages = []models.RetrievedPassage{}
	}
	return passages
}

// BuildResearchPrompt lays out web pages first, then stored passages, each as
// a labelled block.
func BuildResearchPrompt(question string, pages []models.WebPage, passages []models.RetrievedPassage) string {
	var sb strings.Builder
	sb.WriteString("You are a meticulous research assistant. Synthesize findings for: ")
	sb.WriteString(question)
	sb.WriteString("\n\n")

	for _, page := range pages {
		fmt.Fprintf(&sb, "Source: %s\n%s\n\n", page.URL, clip(page.Text))
	}
	for _, p := range passages {
		fmt.Fprintf(&sb, "RAG: id=%s score=%.4f source=%s chunk=%d\n%s\n\n",
			p.ID, p.Score, p.SourceID(), p.ChunkIndex(), clip(p.Text()))
	}

	sb.WriteString("Provide a structured note with key findings and citations.")
	return sb.String()
}
