package websearch

import (
	"context"

	"github.com/povarna/generative-ai-agents/research-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/rs/zerolog"
)

// CachedSearcher serves repeated queries from a cache. Cache failures are
// logged and fall through to the wrapped searcher.
type CachedSearcher struct {
	inner  Searcher
	cache  cache.SearchCache
	logger *zerolog.Logger
}

func NewCachedSearcher(inner Searcher, c cache.SearchCache, logger *zerolog.Logger) *CachedSearcher {
	return &CachedSearcher{
		inner:  inner,
		cache:  c,
		logger: logger,
	}
}

func (s *CachedSearcher) Search(ctx context.Context, query string, n int) ([]models.WebResult, error) {
	cached, ok, err := s.cache.Get(ctx, query, n)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Search cache read failed")
	}
	if ok {
		s.logger.Debug().Str("query", query).Msg("Search cache hit")
		return cached, nil
	}

	results, err := s.inner.Search(ctx, query, n)
	if err != nil {
		return nil, err
	}

	if len(results) > 0 {
		if err := s.cache.Set(ctx, query, n, results); err != nil {
			s.logger.Warn().Err(err).Msg("Search cache write failed")
		}
	}
	return results, nil
}

func (s *CachedSearcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	return s.inner.FetchPage(ctx, pageURL)
}
