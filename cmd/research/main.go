package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/research-agent/internal/config"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/povarna/generative-ai-agents/research-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/research-agent/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	query := flag.String("q", "", "Research question")
	stdin := flag.Bool("stdin", false, "Read the question from stdin")
	maxWeb := flag.Int("web", 0, "Number of web results (default 5)")
	maxRAG := flag.Int("rag", 0, "Number of stored passages (default 5)")
	flag.Parse()

	_ = godotenv.Load()

	question := *query
	if *stdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read from stdin")
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		fmt.Fprintln(os.Stderr, "Please provide a question using -q or -stdin")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Logs go to stderr so stdout stays valid JSON
	appLogger := logger.New(cfg.LogLevel, true)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req := models.ResearchRequest{Query: question, MaxWebResults: *maxWeb, MaxRAGChunks: *maxRAG}
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		appLogger.Fatal().Err(err).Msg("Invalid request")
	}

	deps, err := setup.Wire(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("Unable to load dependencies")
	}
	defer deps.Close()

	response := deps.Pipeline.Run(ctx, req)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		appLogger.Error().Err(err).Msg("Failed to encode response")
	}
}
