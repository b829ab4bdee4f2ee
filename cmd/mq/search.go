package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abelbrown/marquee/internal/suggest"
)

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	endpoint := fs.String("endpoint", "", "Search server base URL")
	strict := fs.Bool("strict", false, "Report fetch errors and exit 1 instead of printing no results")
	fs.Parse(os.Args[1:])

	queries := fs.Args()
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "usage: mq search [-endpoint URL] [-strict] <query> [query...]")
		os.Exit(1)
	}

	client := newClient(loadConfig(*endpoint))
	fmt.Printf("Endpoint: %s\n", client.Endpoint())
	fmt.Println(strings.Repeat("=", 60))

	if failed := searchQueries(context.Background(), client, queries, *strict, os.Stdout, os.Stderr); failed > 0 {
		os.Exit(1)
	}
}

// searchQueries prints the suggestions for each query and returns how many
// lookups failed. Failures only count in strict mode; otherwise they print
// as an empty result, the way the picker shows them.
func searchQueries(ctx context.Context, c *suggest.Client, queries []string, strict bool, out, errOut io.Writer) int {
	failed := 0
	for _, query := range queries {
		t0 := time.Now()
		var titles []string
		if strict {
			var err error
			titles, err = c.Fetch(ctx, query)
			if err != nil {
				fmt.Fprintf(errOut, "error: %q: %v\n", query, err)
				failed++
				continue
			}
		} else {
			titles = c.Suggest(ctx, query)
		}
		elapsed := time.Since(t0)

		url, _ := c.SearchURL(query)
		fmt.Fprintf(out, "\n>>> %q  (%d results, %s)\n", query, len(titles), elapsed.Round(time.Millisecond))
		fmt.Fprintf(out, "    GET %s\n", url)
		for i, title := range titles {
			fmt.Fprintf(out, "  %2d. %s\n", i+1, title)
		}
	}
	return failed
}
