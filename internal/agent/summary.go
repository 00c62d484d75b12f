package agent

import (
	"context"
	"strings"

	"github.com/povarna/generative-ai-agents/research-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/research-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/rs/zerolog"
)

const summaryInstructions = `Create a concise executive summary for busy executives.
- Use bullet points.
- Include a 2-sentence overview first.
- Add a short risk/limitations section.
- End with recommended next steps.`

// SummaryAgent turns the research draft into an executive summary.
type SummaryAgent struct {
	llmClient llm.LLMClient
	guard     *guardrails.Guardrails
	opts      llm.ModelOptions
	logger    *zerolog.Logger
}

func NewSummaryAgent(llmClient llm.LLMClient, guard *guardrails.Guardrails, opts llm.ModelOptions, logger *zerolog.Logger) *SummaryAgent {
	if guard == nil {
		guard = guardrails.NewStaticGuardrails(logger)
	}
	return &SummaryAgent{
		llmClient: llmClient,
		guard:     guard,
		opts:      opts,
		logger:    logger,
	}
}

func (a *SummaryAgent) Name() string {
	return "summary_agent"
}

func (a *SummaryAgent) Run(ctx context.Context, state models.PipelineState) models.PipelineState {
	if state.Rejected {
		state.Summary = state.Draft
		return state
	}

	prompt, ok := a.guard.PreparePrompt(BuildSummaryPrompt(state.Question, state.Draft, state.Sources))
	if !ok {
		state.Summary = prompt
		return state
	}

	summary, err := generate(ctx, a.llmClient, a.opts, prompt)
	if err != nil {
		a.logger.Error().Err(err).Msg("Summary model call failed")
		state.Summary = modelError(err)
		return state
	}

	state.Summary = summary
	return state
}

func BuildSummaryPrompt(question, draft string, sources []string) string {
	var sb strings.Builder
	sb.WriteString(summaryInstructions)
	sb.WriteString("\n\nUser question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nResearch draft: ")
	sb.WriteString(draft)
	sb.WriteString("\n\nSources:\n")
	for _, source := range sources {
		sb.WriteString("- ")
		sb.WriteString(source)
		sb.WriteString("\n")
	}
	return sb.String()
}
