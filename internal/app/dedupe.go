package app

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/stitch/internal/cli"
	"horse.fit/stitch/internal/config"
	"horse.fit/stitch/internal/logging"
	"horse.fit/stitch/internal/pipeline"
)

func runDedupe(args []string) int {
	fs := flag.NewFlagSet("dedupe", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	input := fs.String("input", "", "Tab-separated row file to deduplicate")
	output := fs.String("output", "", "Destination file (default: input with .deduped suffix)")

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

	deduper, err := newDeduper(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid dedup configuration: %v\n", err)
		return 1
	}

	rows, err := readRowFile(*input)
	if err != nil {
		logger.Error().Err(err).Str("input", *input).Msg("dedupe failed to read input")
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		return 1
	}

	outcome := deduper.Dedupe(rows)

	outputPath := strings.TrimSpace(*output)
	if outputPath == "" {
		outputPath = *input + ".deduped"
	}
	out, err := os.Create(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		return 1
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	for _, row := range outcome.Rows {
		if _, err := writer.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			return 1
		}
	}
	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush output: %v\n", err)
		return 1
	}

	fmt.Printf("dedupe applied=%t rows=%d kept=%d collapsed=%d passthrough=%d malformed=%d output=%s\n",
		outcome.Applied, len(rows), len(outcome.Rows), outcome.Collapsed, outcome.Passthrough, outcome.Malformed, outputPath)
	return 0
}

func newDeduper(cfg *config.Config, logger zerolog.Logger) (*pipeline.StubDeduper, error) {
	priorities, err := cfg.DomainPriorities()
	if err != nil {
		return nil, err
	}
	required, err := cfg.RequiredDomainPair()
	if err != nil {
		return nil, err
	}
	return pipeline.NewStubDeduper(pipeline.DedupeConfig{
		Priorities:      priorities,
		ExcludePrefix:   cfg.DedupeExcludePrefix,
		RequiredDomains: required,
	}, logger), nil
}
