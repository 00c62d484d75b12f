package guardrails

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxTokens is the whitespace-token ceiling applied to outbound prompts.
	DefaultMaxTokens = 2000

	BlockedSecretMessage = "Blocked: sensitive secret pattern detected"
)

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)disable\s+safety`),
	regexp.MustCompile(`(?i)reveal\s+(the\s+|your\s+)?system\s+prompt`),
}

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password\s*[:=]`),
	regexp.MustCompile(`(?i)api[_-]?key`),
	regexp.MustCompile(`(?i)bearer\s+[a-z0-9._\-]+`),
	regexp.MustCompile(`(?i)[a-z_]*token\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)ssh[- ]?key`),
	regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`),
}

// DetectPromptInjection reports whether the query contains a known adversarial phrase.
func DetectPromptInjection(query string) bool {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(query) {
			return true
		}
	}
	return false
}

// FilterContent returns (false, BlockedSecretMessage) when the prompt looks like it
// carries a credential, otherwise (true, prompt).
func FilterContent(prompt string) (bool, string) {
	for _, pattern := range secretPatterns {
		if pattern.MatchString(prompt) {
			return false, BlockedSecretMessage
		}
	}
	return true, prompt
}

// EnforceTokenLimit keeps the first DefaultMaxTokens whitespace-delimited tokens.
func EnforceTokenLimit(text string) string {
	return TruncateTokens(text, DefaultMaxTokens)
}

// TruncateTokens returns text unchanged when it has at most maxTokens tokens.
// A non positive maxTokens disables truncation.
func TruncateTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}
	tokens := strings.Fields(text)
	if len(tokens) <= maxTokens {
		return text
	}
	return strings.Join(tokens[:maxTokens], " ")
}
