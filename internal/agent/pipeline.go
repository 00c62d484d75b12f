package agent

import (
	"context"
	"time"

	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/rs/zerolog"
)

// Pipeline runs its stages strictly in order: research, then summary.
type Pipeline struct {
	stages []Stage
	logger *zerolog.Logger
}

func NewPipeline(research, summary Stage, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		stages: []Stage{research, summary},
		logger: logger,
	}
}

// Run answers a research request.
func (p *Pipeline) Run(ctx context.Context, req models.ResearchRequest) models.ResearchResponse {
	state := models.NewPipelineState(req.Query, req.MaxWebResults, req.MaxRAGChunks)
	return models.NewResearchResponse(p.Execute(ctx, state))
}

// Execute threads the state through every stage and returns the terminal state.
func (p *Pipeline) Execute(ctx context.Context, state models.PipelineState) models.PipelineState {
	start := time.Now()
	p.logger.Info().Int("web_results", state.MaxWebResults).Int("rag_chunks", state.MaxRAGChunks).Msg("starting research pipeline")

	for _, stage := range p.stages {
		stageStart := time.Now()
		state = stage.Run(ctx, state)
		p.logger.Debug().
			Str("stage", stage.Name()).
			Dur("duration", time.Since(stageStart)).
			Msg("stage complete")
	}

	p.logger.Info().
		Int("sources", len(state.Sources)).
		Bool("rejected", state.Rejected).
		Dur("duration", time.Since(start)).
		Msg("research pipeline complete")
	return state
}
