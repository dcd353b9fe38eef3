// Package watch reloads the system prompt override while the server runs.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// PromptWatcher watches a single prompt file and applies its contents on
// change. Rapid successive writes are coalesced into one reload.
type PromptWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	apply    func(content string)
}

// NewPromptWatcher creates a watcher for the given prompt file. apply is
// invoked with the file contents on every reload, and with an empty string
// when the file disappears.
func NewPromptWatcher(path string, debounce time.Duration, apply func(content string)) (*PromptWatcher, error) {
	if path == "" {
		return nil, fmt.Errorf("prompt file path is empty")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 300 * time.Millisecond
	}
	return &PromptWatcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		watcher:  w,
		apply:    apply,
	}, nil
}

// Run loads the prompt once, then blocks watching for changes until the
// context is cancelled. The parent directory is watched rather than the
// file itself so editors that save via rename keep being noticed.
func (w *PromptWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.load()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = timer.C
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}

		case <-pending:
			timer = nil
			pending = nil
			w.load()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (w *PromptWatcher) load() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Prompt file %s absent; using built-in system prompt", w.path)
			if w.apply != nil {
				w.apply("")
			}
			return
		}
		log.Printf("Failed to read prompt file %s: %v", w.path, err)
		return
	}

	log.Printf("Loaded system prompt from %s (%d bytes)", w.path, len(data))
	if w.apply != nil {
		w.apply(string(data))
	}
}
