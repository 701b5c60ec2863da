package app

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/stitch/internal/config"
	"horse.fit/stitch/internal/logging"
	"horse.fit/stitch/internal/pipeline"
	"horse.fit/stitch/internal/textio"
)

func runConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	input := fs.String("input", "", "JSONL crawl dump to convert")
	output := fs.String("output", "", "Destination tab-separated file (default: input with .txt extension)")

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

	outputPath := strings.TrimSpace(*output)
	if outputPath == "" {
		outputPath = strings.TrimSuffix(*input, ".jsonl") + ".txt"
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

	in, err := os.Open(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
		return 1
	}
	defer in.Close()

	lines, err := textio.ReadLines(in)
	if err != nil {
		logger.Error().Err(err).Str("input", *input).Msg("convert failed to read input")
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		return 1
	}

	out, err := os.Create(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		return 1
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	var converted, failed int
	for i, line := range lines {
		row, err := pipeline.ConvertJSONLLine(line)
		if err != nil {
			failed++
			logger.Warn().Err(err).Int("line", i+1).Msg("skipping unconvertible record")
			continue
		}
		if _, err := writer.WriteString(row + "\n"); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			return 1
		}
		converted++
	}
	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush output: %v\n", err)
		return 1
	}

	logger.Info().
		Int("converted", converted).
		Int("failed", failed).
		Str("output", outputPath).
		Msg("convert completed")
	fmt.Printf("convert converted=%d failed=%d output=%s\n", converted, failed, outputPath)
	return 0
}
