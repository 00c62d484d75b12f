package websearch

import (
	"net/url"
	"strings"
)

// Allowlist restricts results and page fetches to hosts ending with one of
// its suffixes. An empty allowlist allows everything.
type Allowlist []string

// ParseAllowlist reads a comma separated list; blank entries are ignored.
func ParseAllowlist(csv string) Allowlist {
	var list Allowlist
	for _, domain := range strings.Split(csv, ",") {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain != "" {
			list = append(list, domain)
		}
	}
	return list
}

func (a Allowlist) Allows(rawURL string) bool {
	if len(a) == 0 {
		return true
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Host)

	for _, domain := range a {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		if strings.HasSuffix(host, domain) {
			return true
		}
	}
	return false
}
