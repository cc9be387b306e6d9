package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch keeps sanitizing files that appear in the input directory after the
// initial pass. Write events are debounced so a file copied in several bursts
// is processed once, after it has settled.
func (w *Worker) Watch(ctx context.Context, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	err = watcher.Add(w.inputDir)
	if err != nil {
		return fmt.Errorf("failed to watch input dir: %w", err)
	}

	w.log.Info("watching for new files", "endpoint", w.endpoint, "dir", w.inputDir)

	dirty := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}

			name := filepath.Base(ev.Name)
			if w.findReader(name) == nil {
				continue
			}

			dirty[name] = struct{}{}
			timer.Reset(debounce)
			flush = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "endpoint", w.endpoint, "error", err)

		case <-flush:
			names := make([]string, 0, len(dirty))
			for name := range dirty {
				names = append(names, name)
			}
			sort.Strings(names)
			clear(dirty)
			flush = nil

			for _, name := range names {
				err = w.processFile(ctx, name)
				if err != nil {
					return fmt.Errorf("failed to sanitize %s: %w", name, err)
				}
			}
		}
	}
}
