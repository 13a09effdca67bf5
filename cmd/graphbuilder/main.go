package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/forum-graph-exporter/internal/config"
	"github.com/forum-graph-exporter/internal/database"
	"github.com/forum-graph-exporter/internal/dataset"
	"github.com/forum-graph-exporter/internal/pipeline"
	"github.com/forum-graph-exporter/pkg/logger"
)

func main() {
	// Optional .env for local runs; real deployments set the environment
	godotenv.Load()

	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting forum graph exporter...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Select the table source
	var source dataset.Source
	switch cfg.Dataset.Source {
	case config.SourcePostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		source = dataset.NewPostgresSource(db, log)
	default:
		source = dataset.NewCSVSource(cfg.Dataset, log)
	}

	// Run the pipeline to completion; there is no partial recovery
	result, err := pipeline.New(source, cfg, log).Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Graph export failed")
	}

	log.Info().
		Int("nodes", result.Nodes).
		Int("edges", result.Edges).
		Str("output", result.OutputPath).
		Msg("Done")
}
