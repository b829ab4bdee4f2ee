package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/abelbrown/marquee/internal/config"
)

func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	path := fs.String("path", config.ConfigPath(), "Config file (.json or .toml)")
	initFile := fs.Bool("init", false, "Write the default config to -path")
	force := fs.Bool("force", false, "With -init, overwrite an existing file")
	fs.Parse(os.Args[1:])

	if *initFile {
		if err := initConfig(*path, *force); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *path)
		return
	}

	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()
	if err := printConfig(os.Stdout, *path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// initConfig writes the default config to path. An existing file is kept
// unless force is set.
func initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return config.DefaultConfig().Save(path)
}

// printConfig shows the effective config, as the picker would see it before
// command-line flags.
func printConfig(w io.Writer, path string, cfg *config.Config) error {
	fmt.Fprintf(w, "# %s (with MARQUEE_* overrides)\n", path)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(w, "# invalid: %v\n", err)
	}
	return nil
}
