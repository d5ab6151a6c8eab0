// Package dictwatch reloads a dictionary file when it changes on disk.
package dictwatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kestfor/hexspeak/internal/wordtable"
)

const DefaultDebounce = 500 * time.Millisecond

type Watcher struct {
	path     string
	debounce time.Duration
	reload   func(words []string)
}

// New watches path and hands every successfully read version of it to
// reload. Bursts of events within debounce cause a single reload.
func New(path string, debounce time.Duration, reload func(words []string)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		reload:   reload,
	}
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// editors replace files on save, so the directory is watched
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	slog.Info("watching dictionary", slog.String("path", w.path))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("dictionary watcher error", slog.Any("error", err))

		case <-timer.C:
			words, err := wordtable.LoadWords(w.path)
			if err != nil {
				slog.Warn("dictionary reload failed",
					slog.String("path", w.path),
					slog.Any("error", err),
				)
				continue
			}

			w.reload(words)

			slog.Info("dictionary reloaded",
				slog.String("path", w.path),
				slog.Int("words", len(words)),
			)
		}
	}
}
