package guardrails

import (
	"context"

	"github.com/povarna/generative-ai-agents/research-agent/internal/llm"
	"github.com/rs/zerolog"
)

// Guardrails bundles the static filters with an optional model-backed validator.
type Guardrails struct {
	maxTokens    int
	llmValidator *LLMValidator
	logger       *zerolog.Logger
}

// NewGuardrails builds guardrails; a nil client disables LLM validation.
func NewGuardrails(client llm.LLMClient, maxTokens int, logger *zerolog.Logger) *Guardrails {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	g := &Guardrails{
		maxTokens: maxTokens,
		logger:    logger,
	}
	if client != nil {
		g.llmValidator = NewLLMValidator(client)
	}
	return g
}

func NewStaticGuardrails(logger *zerolog.Logger) *Guardrails {
	return NewGuardrails(nil, DefaultMaxTokens, logger)
}

func (g *Guardrails) ValidateQuery(ctx context.Context, query string) ValidationResult {
	// Static rules first (fast, free)
	if DetectPromptInjection(query) {
		result := ValidationResult{
			IsValid:  false,
			Reason:   "Prompt appears unsafe. Please rephrase.",
			Category: CategoryPromptInjection,
			Method:   MethodStatic,
		}
		g.logger.Info().Str("method", result.Method).Str("category", result.Category).Msg("Query blocked by static rules")
		return result
	}

	if g.llmValidator != nil {
		result := g.llmValidator.Validate(ctx, query)
		if !result.IsValid {
			g.logger.Warn().
				Str("method", result.Method).
				Str("category", result.Category).
				Str("reason", result.Reason).
				Msg("Query blocked by LLM validator")
		}
		return result
	}

	return ValidationResult{IsValid: true, Reason: "Input validated", Category: CategorySafe, Method: MethodStatic}
}

func (g *Guardrails) IsInjection(query string) bool {
	return DetectPromptInjection(query)
}

// PreparePrompt runs the content filter and then the token budget.
// When the filter rejects the prompt it returns the block message and false.
func (g *Guardrails) PreparePrompt(prompt string) (string, bool) {
	allowed, text := FilterContent(prompt)
	if !allowed {
		g.logger.Warn().Msg("Prompt blocked by content filter")
		return text, false
	}
	return TruncateTokens(text, g.maxTokens), true
}
