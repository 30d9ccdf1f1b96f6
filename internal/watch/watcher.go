// Package watch re-runs an export whenever the source workbook changes.
//
// Editors typically save by writing a temp file and renaming it over the
// original, so the watcher monitors the workbook's directory and filters
// events by file name instead of watching the file itself.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called (debounced) after the watched workbook changes.
type Handler func(path string) error

// Watcher monitors a single workbook file and triggers re-exports.
type Watcher struct {
	// Path is the workbook file to watch.
	Path string
	// Debounce is how long to wait after the last event before firing.
	// Zero means 500ms.
	Debounce time.Duration
	// Handler runs the export. Errors are logged; the loop continues.
	Handler Handler
	// Logger defaults to a "[watch]" stderr logger.
	Logger *log.Logger

	mu      sync.Mutex
	timer   *time.Timer
	watcher *fsnotify.Watcher
}

// New creates a Watcher for the workbook at path.
func New(path string, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("could not watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	return &Watcher{
		Path:     abs,
		Debounce: 500 * time.Millisecond,
		Handler:  handler,
		Logger:   log.New(os.Stderr, "[watch] ", log.LstdFlags),
		watcher:  fsw,
	}, nil
}

// Start begins watching. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.Path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}

	w.Logger.Printf("Watching %s", w.Path)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Println("Stopping watcher")
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Printf("Error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != filepath.Base(w.Path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	// Office apps emit bursts of writes per save; collapse them into one run.
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, func() {
		if w.Handler == nil {
			return
		}
		if err := w.Handler(w.Path); err != nil {
			w.Logger.Printf("Export failed: %v", err)
			return
		}
		w.Logger.Printf("Re-exported after change to %s", filepath.Base(w.Path))
	})
}
