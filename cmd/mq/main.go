// Command mq is the debugging CLI for marquee.
//
// Usage:
//
//	mq                      Show help
//	mq search <query>...    One-shot suggestion lookups
//	mq type                 Replay stdin lines as keystrokes through the debouncer
//	mq events               JSONL event log viewer
//	mq config               Show or initialise the config file
package main

import (
	"fmt"
	"os"
)

const usage = `mq - marquee debug CLI

Usage:
  mq <command> [flags]

Commands:
  search      Print the suggestions the server returns for each query
  type        Treat each stdin line as the current input value and show
              which searches the debouncer lets through
  events      JSONL event log viewer
  config      Show the effective config, or write defaults with -init

Environment:
  MARQUEE_ENDPOINT     Search server base URL (default: http://127.0.0.1:5000)
  MARQUEE_DEBOUNCE_MS  Debounce delay in milliseconds (default: 300)
  MARQUEE_MIN_CHARS    Minimum query length (default: 2)

Run 'mq <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "search":
		runSearch()
	case "type":
		runType()
	case "events":
		runEvents()
	case "config":
		runConfig()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "mq: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
