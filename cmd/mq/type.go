package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/marquee/internal/autocomplete"
	"github.com/abelbrown/marquee/internal/suggest"
)

func runType() {
	fs := flag.NewFlagSet("type", flag.ExitOnError)
	endpoint := fs.String("endpoint", "", "Search server base URL")
	pace := fs.Duration("pace", 0, "Pause between input lines, simulating typing speed")
	fs.Parse(os.Args[1:])

	cfg := loadConfig(*endpoint)
	opts := autocomplete.Options{Delay: cfg.Debounce(), MinChars: cfg.MinChars}

	fmt.Fprintf(os.Stderr, "debounce %s, min %d chars; one input value per line, ctrl-d to finish\n",
		opts.Delay, opts.MinChars)
	fmt.Fprintln(os.Stderr, "directives: ':delay <dur>' changes the debounce, ':esc' drops a pending search")

	if err := typeLines(context.Background(), newClient(cfg), opts, os.Stdin, os.Stdout, *pace); err != nil {
		log.Fatalf("read input: %v", err)
	}
}

// typeLines feeds each line of in to a controller as the new input value,
// debouncing exactly like the picker, and reports every search that goes out
// and what happens to its response. Pending input is flushed at EOF.
func typeLines(ctx context.Context, s suggest.Suggester, opts autocomplete.Options, in io.Reader, out io.Writer, pace time.Duration) error {
	ctl := autocomplete.New(opts)
	deb := autocomplete.NewDebouncer(ctl.Options().Delay)

	// mu guards ctl and out; settle runs on timer goroutines.
	var mu sync.Mutex

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, ":") {
			if err := typeDirective(deb, ctl, &mu, line, out); err != nil {
				fmt.Fprintf(out, "  %v\n", err)
			}
			continue
		}

		mu.Lock()
		gen := ctl.Input(line)
		fmt.Fprintf(out, "> %s\n", line)
		mu.Unlock()

		deb.Trigger(func() { settle(ctx, s, ctl, &mu, gen, out) })
		if pace > 0 {
			time.Sleep(pace)
		}
	}
	if deb.Pending() {
		mu.Lock()
		fmt.Fprintf(out, "  end of input, flushing %q\n", ctl.Value())
		mu.Unlock()
	}
	deb.Flush()
	return scanner.Err()
}

// typeDirective handles the ":" lines of mq type:
//
//	:delay <dur>  change the debounce delay from here on
//	:esc          press Escape, dropping a pending search
func typeDirective(deb *autocomplete.Debouncer, ctl *autocomplete.Controller, mu *sync.Mutex, line string, out io.Writer) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":delay":
		if len(fields) != 2 {
			return fmt.Errorf("usage: :delay <duration>")
		}
		d, err := time.ParseDuration(fields[1])
		if err != nil || d < 0 {
			return fmt.Errorf("bad delay %q", fields[1])
		}
		deb.SetDelay(d)
		mu.Lock()
		opts := ctl.Options()
		opts.Delay = d
		ctl.SetOptions(opts)
		mu.Unlock()
		fmt.Fprintf(out, "  debounce now %s\n", d)
	case ":esc":
		dropped := deb.Pending()
		deb.Cancel()
		mu.Lock()
		ctl.Key(autocomplete.KeyEscape)
		mu.Unlock()
		if dropped {
			fmt.Fprintln(out, "  escape, pending search dropped")
		} else {
			fmt.Fprintln(out, "  escape")
		}
	default:
		return fmt.Errorf("unknown directive %s", fields[0])
	}
	return nil
}

func settle(ctx context.Context, s suggest.Suggester, ctl *autocomplete.Controller, mu *sync.Mutex, gen uint64, out io.Writer) {
	mu.Lock()
	current := gen == ctl.Generation()
	req, ok := ctl.Elapsed(gen)
	if !ok {
		if current {
			fmt.Fprintf(out, "  %q is shorter than %d chars, list cleared\n",
				strings.TrimSpace(ctl.Value()), ctl.Options().MinChars)
		}
		mu.Unlock()
		return
	}
	fmt.Fprintf(out, "  [#%d] GET %q\n", req.Seq, req.Query)
	mu.Unlock()

	titles := s.Suggest(ctx, req.Query)

	mu.Lock()
	defer mu.Unlock()
	switch {
	case !ctl.Deliver(req.Seq, titles):
		fmt.Fprintf(out, "  [#%d] %q stale, discarded\n", req.Seq, req.Query)
	case len(titles) == 0:
		fmt.Fprintf(out, "  [#%d] %q no suggestions\n", req.Seq, req.Query)
	default:
		fmt.Fprintf(out, "  [#%d] %q -> %s\n", req.Seq, req.Query, strings.Join(titles, " | "))
	}
}
