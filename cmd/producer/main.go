package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/research-agent/internal/config"
	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	red "github.com/povarna/generative-ai-agents/research-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/research-agent/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	query := flag.String("q", "", "Research question")
	maxWeb := flag.Int("web", 0, "Number of web results (default 5)")
	maxRAG := flag.Int("rag", 0, "Number of stored passages (default 5)")
	wait := flag.Duration("wait", 0, "Wait this long for the job result, 0 returns after publishing")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -q '<question>' [-web 5] [-rag 5] [-wait 2m]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	req := models.ResearchRequest{Query: *query, MaxWebResults: *maxWeb, MaxRAGChunks: *maxRAG}
	if err := run(req, *wait); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(req models.ResearchRequest, wait time.Duration) error {
	_ = godotenv.Load()

	req.SetDefaults()
	if err := req.Validate(); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, red.Config{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		MaxRetries: 3,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	publisher := redis.NewPublisher(client, cfg.Redis.Stream, cfg.Redis.ResultPrefix)
	job, err := publisher.Publish(ctx, req)
	if err != nil {
		return err
	}

	log.Info().Str("stream", cfg.Redis.Stream).Str("job_id", job.ID).Msg("Published successfully!")

	if wait <= 0 {
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	result, err := publisher.AwaitResult(waitCtx, job.ID, time.Second)
	if err != nil {
		return fmt.Errorf("no result for job %s: %w", job.ID, err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
