package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/research-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
)

//go:generate mockgen -destination=mocks/mock_agent.go -package=mocks . WebSearcher,PassageRetriever,Stage

// WebSearcher finds pages for a question and fetches their text.
type WebSearcher interface {
	Search(ctx context.Context, query string, n int) ([]models.WebResult, error)
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

// PassageRetriever returns the stored chunks closest to a query.
type PassageRetriever interface {
	Search(ctx context.Context, query string, topK int) ([]models.RetrievedPassage, error)
}

// Stage is one step of the pipeline. A stage never fails: degraded results
// are written into the returned state.
type Stage interface {
	Name() string
	Run(ctx context.Context, state models.PipelineState) models.PipelineState
}

const (
	InjectionRejectionMessage = "Query flagged for possible prompt-injection. Please rephrase."

	maxBlockChars = 2000
)

var errEmptyResponse = errors.New("empty model response")

// generate calls the model and returns its text. Retry selects the client's
// backoff path.
func generate(ctx context.Context, client llm.LLMClient, opts llm.ModelOptions, prompt string) (string, error) {
	if client == nil {
		return "", errors.New("model client not configured")
	}

	request := llm.LLMRequest{
		Prompt:      prompt,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	var (
		resp *llm.LLMResponse
		err  error
	)
	if opts.Retry {
		resp, err = client.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = client.InvokeModel(ctx, request)
	}
	if err != nil {
		return "", err
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", errEmptyResponse
	}
	return resp.Content, nil
}

func modelError(err error) string {
	return fmt.Sprintf("Model error: %v", err)
}

// clip keeps the first maxBlockChars characters and marks the cut.
func clip(text string) string {
	runes := []rune(text)
	if len(runes) <= maxBlockChars {
		return text
	}
	return string(runes[:maxBlockChars]) + "..."
}
