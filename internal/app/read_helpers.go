package app

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/stitch/internal/pipeline"
	"horse.fit/stitch/internal/textio"
)

// readIngestFile parses a tab-separated ingest file into raw inputs.
// Unparseable rows are logged and counted, not fatal.
func readIngestFile(path, siteOverride string, logger zerolog.Logger) ([]pipeline.RawInput, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	lines, err := textio.ReadLines(f)
	if err != nil {
		return nil, 0, err
	}

	inputs := make([]pipeline.RawInput, 0, len(lines))
	var malformed int
	for i, line := range lines {
		in, err := pipeline.ParseTSVLine(line)
		if err != nil {
			malformed++
			logger.Warn().Err(err).Int("line", i+1).Msg("skipping malformed ingest row")
			continue
		}
		if siteOverride != "" {
			in.Site = siteOverride
		}
		inputs = append(inputs, in)
	}
	return inputs, malformed, nil
}

// readRowFile parses a tab-separated file into raw rows for the dedup pass.
func readRowFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := textio.ReadLines(f)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, strings.Split(line, "\t"))
	}
	return rows, nil
}
