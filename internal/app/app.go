package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "convert":
		return runConvert(args[1:])
	case "build":
		return runBuild(args[1:])
	case "dedupe":
		return runDedupe(args[1:])
	case "load":
		return runLoad(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "stitch CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  stitch <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health    Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  validate  Validate scraped page JSON files against the ingest schema")
	fmt.Fprintln(os.Stderr, "  convert   Convert a JSONL crawl dump to a tab-separated ingest file")
	fmt.Fprintln(os.Stderr, "  build     Build canonical documents from a tab-separated ingest file")
	fmt.Fprintln(os.Stderr, "  dedupe    Collapse same-topic rows across competing domains")
	fmt.Fprintln(os.Stderr, "  load      Build documents and load them into Postgres")
	fmt.Fprintln(os.Stderr, "  serve     Start the Echo API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"stitch <command> -h\" for command-specific flags.")
}
