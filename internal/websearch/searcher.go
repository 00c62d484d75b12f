package websearch

import (
	"context"

	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
)

type Searcher interface {
	Search(ctx context.Context, query string, n int) ([]models.WebResult, error)
	FetchPage(ctx context.Context, pageURL string) (string, error)
}
