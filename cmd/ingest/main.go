package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/research-agent/internal/config"
	"github.com/povarna/generative-ai-agents/research-agent/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	metadata := flag.String("metadata", "", "JSON object stored with every chunk")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ingest [-metadata '<json>'] <file.pdf|file.txt|file.md>...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setup.WireIngestion(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load dependencies")
	}
	defer deps.Close()

	if !deps.RAG.Configured() {
		log.Warn().Msg("Vector store disabled, documents will be parsed but not stored")
	}

	failed := 0
	for _, path := range paths {
		result, err := deps.Ingestion.IngestPath(ctx, path, *metadata)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Ingestion failed")
			failed++
			continue
		}
		log.Info().
			Str("path", path).
			Str("doc_id", result.DocumentID).
			Str("mode", result.Mode).
			Int("chunks", result.Chunks).
			Msg("Ingestion successful!")
	}

	if failed > 0 {
		deps.Close()
		os.Exit(1)
	}
}
