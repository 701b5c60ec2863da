package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"horse.fit/stitch/internal/textio"
	pageschema "horse.fit/stitch/schema"
)

type validateResult struct {
	Scanned int
	Valid   int
	Invalid int
}

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	dir := fs.String("dir", "testdata/pages", "Directory containing .json or .jsonl scraped page files")
	recursive := fs.Bool("recursive", true, "Recursively scan subdirectories")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	files, err := collectJSONFiles(strings.TrimSpace(*dir), *recursive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation setup failed: %v\n", err)
		return 1
	}

	result := validateResult{}
	for _, path := range files {
		if strings.EqualFold(filepath.Ext(path), ".jsonl") {
			validateJSONLFile(path, &result)
			continue
		}
		result.Scanned++

		raw, err := os.ReadFile(path)
		if err != nil {
			result.Invalid++
			fmt.Fprintf(os.Stderr, "INVALID %s: read failed: %v\n", path, err)
			continue
		}

		if !json.Valid(raw) {
			result.Invalid++
			fmt.Fprintf(os.Stderr, "INVALID %s: malformed JSON\n", path)
			continue
		}

		if _, err := pageschema.ValidateScrapedPage(json.RawMessage(raw)); err != nil {
			result.Invalid++
			fmt.Fprintf(os.Stderr, "INVALID %s: %v\n", path, err)
			continue
		}

		result.Valid++
	}

	fmt.Printf(
		"validate scanned=%d valid=%d invalid=%d dir=%s recursive=%t\n",
		result.Scanned,
		result.Valid,
		result.Invalid,
		strings.TrimSpace(*dir),
		*recursive,
	)

	if result.Scanned == 0 {
		fmt.Fprintf(os.Stderr, "Validation failed: no .json files found under %s\n", strings.TrimSpace(*dir))
		return 1
	}
	if result.Invalid > 0 {
		return 1
	}
	return 0
}

// validateJSONLFile checks each line of a .jsonl dump as one scraped page
// record; every line counts toward the scan totals.
func validateJSONLFile(path string, result *validateResult) {
	f, err := os.Open(path)
	if err != nil {
		result.Scanned++
		result.Invalid++
		fmt.Fprintf(os.Stderr, "INVALID %s: read failed: %v\n", path, err)
		return
	}
	defer f.Close()

	lines, err := textio.ReadLines(f)
	if err != nil {
		result.Scanned++
		result.Invalid++
		fmt.Fprintf(os.Stderr, "INVALID %s: decode failed: %v\n", path, err)
		return
	}

	for i, line := range lines {
		result.Scanned++
		if _, err := pageschema.ValidateScrapedPage(json.RawMessage(line)); err != nil {
			result.Invalid++
			fmt.Fprintf(os.Stderr, "INVALID %s:%d: %v\n", path, i+1, err)
			continue
		}
		result.Valid++
	}
}

func collectJSONFiles(dir string, recursive bool) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory is required")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			if isPageFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if isPageFile(entry.Name()) {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func isPageFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.EqualFold(ext, ".json") || strings.EqualFold(ext, ".jsonl")
}
