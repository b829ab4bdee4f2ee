package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config at path whenever it is written and passes the
// result to fn. Each reload goes through ApplyEnv and then o, so values given
// on the command line survive edits to the file. Invalid or unreadable configs are reported through onErr and
// otherwise skipped. The directory is watched rather than the file so that
// editors which save via rename are still picked up.
//
// Watch returns once the watcher is installed; it stops when ctx is done.
func Watch(ctx context.Context, path string, o Overrides, fn func(*Config), onErr func(error)) error {
	if path == "" {
		path = ConfigPath()
	}
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	report := func(err error) {
		if onErr != nil {
			onErr(err)
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					report(err)
					continue
				}
				cfg.ApplyEnv()
				o.Apply(cfg)
				if err := cfg.Validate(); err != nil {
					report(fmt.Errorf("reload %s: %w", path, err))
					continue
				}
				fn(cfg)

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				report(err)
			}
		}
	}()

	return nil
}
