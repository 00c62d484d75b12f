package websearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

const (
	DefaultEndpoint  = "https://duckduckgo.com/html/"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	DefaultTimeout   = 10 * time.Second

	maxBodyBytes = 2 << 20
)

var (
	ErrDomainNotAllowed = errors.New("domain not allowed")
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

type Config struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
	Allowlist Allowlist
}

// DuckDuckGo scrapes the JavaScript-free DuckDuckGo results page.
type DuckDuckGo struct {
	client    *http.Client
	endpoint  string
	userAgent string
	allowlist Allowlist
	logger    *zerolog.Logger
}

func NewDuckDuckGo(cfg Config, logger *zerolog.Logger) *DuckDuckGo {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &DuckDuckGo{
		client:    &http.Client{Timeout: cfg.Timeout},
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		allowlist: cfg.Allowlist,
		logger:    logger,
	}
}

// Search returns at most max(1, n) allowlisted results in page order.
func (d *DuckDuckGo) Search(ctx context.Context, query string, n int) ([]models.WebResult, error) {
	if strings.TrimSpace(query) == "" {
		return []models.WebResult{}, nil
	}

	searchURL := d.endpoint + "?" + url.Values{"q": {query}}.Encode()
	doc, err := d.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	results := parseResults(doc, d.allowlist, max(1, n))
	d.logger.Debug().Str("query", query).Int("results", len(results)).Msg("Web search complete")
	return results, nil
}

// FetchPage returns the visible text of an allowlisted page.
func (d *DuckDuckGo) FetchPage(ctx context.Context, pageURL string) (string, error) {
	if !d.allowlist.Allows(pageURL) {
		return "", fmt.Errorf("%s: %w", pageURL, ErrDomainNotAllowed)
	}

	doc, err := d.get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	return visibleText(doc, " "), nil
}

func (d *DuckDuckGo) get(ctx context.Context, target string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return html.Parse(io.LimitReader(resp.Body, maxBodyBytes))
}

// parseResults tries result title links first, then result url links, then
// any link inside a legacy results block. Allowlist filtering happens before
// the limit is applied.
func parseResults(doc *html.Node, allowlist Allowlist, limit int) []models.WebResult {
	candidates := findAll(doc, elementWithClass("a", "result__a"))
	if len(candidates) == 0 {
		candidates = findAll(doc, elementWithClass("a", "result__url"))
	}
	if len(candidates) == 0 {
		for _, block := range findAll(doc, elementWithClass("div", "results_links")) {
			candidates = append(candidates, findAll(block, func(n *html.Node) bool { return n.Data == "a" })...)
		}
	}

	results := []models.WebResult{}
	for _, a := range candidates {
		href := attr(a, "href")
		if href == "" {
			continue
		}

		link := normalizeLink(href)
		if !allowlist.Allows(link) {
			continue
		}

		snippet := ""
		scope := closestAncestor(a, "div", "article", "li")
		if scope == nil {
			scope = doc
		}
		if sn := findFirst(scope, elementWithClass("", "result__snippet")); sn != nil {
			snippet = visibleText(sn, " ")
		}

		results = append(results, models.WebResult{
			Title:   visibleText(a, " "),
			Link:    link,
			Snippet: snippet,
		})
		if len(results) >= limit {
			break
		}
	}
	return results
}

// normalizeLink unwraps DuckDuckGo redirect links (//duckduckgo.com/l/?uddg=...)
// into the destination URL. Other links are returned unchanged.
func normalizeLink(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}

	host := strings.ToLower(parsed.Host)
	if strings.HasSuffix(host, "duckduckgo.com") && strings.HasPrefix(parsed.Path, "/l/") {
		if target := parsed.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}
