package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/stitch/internal/cli"
	"horse.fit/stitch/internal/config"
	"horse.fit/stitch/internal/db"
	"horse.fit/stitch/internal/logging"
	"horse.fit/stitch/internal/pipeline"
)

func runLoad(args []string) int {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
	input := fs.String("input", "", "Tab-separated ingest file to build and load")
	site := fs.String("site", "", "Site label override for all rows")
	batchSize := fs.Int("batch-size", 100, "Documents per upsert transaction")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if strings.TrimSpace(*input) == "" {
		fmt.Fprintln(os.Stderr, "--input is required")
		return 2
	}
	if *batchSize <= 0 {
		fmt.Fprintln(os.Stderr, "--batch-size must be > 0")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	inputs, malformed, err := readIngestFile(*input, strings.TrimSpace(*site), logger)
	if err != nil {
		logger.Error().Err(err).Str("input", *input).Msg("load failed to read input")
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		return 1
	}

	result := pipeline.NewService(logger).BuildDocuments(inputs)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("load failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	var stored int64
	var failedBatches int
	for start := 0; start < len(result.Documents); start += *batchSize {
		end := min(start+*batchSize, len(result.Documents))
		batch := result.Documents[start:end]

		written, err := pool.UpsertDocuments(ctx, batch)
		if err != nil {
			failedBatches++
			logger.Error().Err(err).
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Msg("batch upsert failed, continuing")
			continue
		}
		stored += written
		logger.Info().
			Int("batch_start", start).
			Int("batch_size", len(batch)).
			Int64("stored_total", stored).
			Msg("batch upsert completed")
	}

	logger.Info().
		Int("rows", len(inputs)).
		Int("documents", len(result.Documents)).
		Int("skipped", len(result.Skipped)).
		Int64("stored", stored).
		Int("failed_batches", failedBatches).
		Msg("load completed")
	fmt.Printf("load rows=%d documents=%d skipped=%d malformed=%d stored=%d failed_batches=%d\n",
		len(inputs), len(result.Documents), len(result.Skipped), malformed, stored, failedBatches)
	if failedBatches > 0 {
		return 1
	}
	return 0
}
