package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/stitch/internal/config"
	"horse.fit/stitch/internal/logging"
	"horse.fit/stitch/internal/pipeline"
)

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	input := fs.String("input", "", "Tab-separated ingest file (url, jsonld, optional embedding)")
	output := fs.String("output", "", "Destination JSONL document file (default: stdout)")
	site := fs.String("site", "", "Site label override for all rows")

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
		logger.Error().Err(err).Str("input", *input).Msg("build failed to read input")
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		return 1
	}

	result := pipeline.NewService(logger).BuildDocuments(inputs)

	out := os.Stdout
	if path := strings.TrimSpace(*output); path != "" {
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	writer := bufio.NewWriter(out)
	for _, doc := range result.Documents {
		encoded, err := json.Marshal(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode document: %v\n", err)
			return 1
		}
		if _, err := writer.Write(append(encoded, '\n')); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			return 1
		}
	}
	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush output: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "build rows=%d documents=%d skipped=%d malformed=%d\n",
		len(inputs), len(result.Documents), len(result.Skipped), malformed)
	return 0
}
