// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch re-runs analysis when a circuit file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change is one observed modification of the watched file.
type Change struct {
	// Op is the file operation fsnotify reported.
	Op fsnotify.Op

	// Time is when the change was detected.
	Time time.Time
}

// Handler is called with the batched changes once the debounce window
// closes.
type Handler func(changes []Change)

// Watcher watches a single circuit file for changes with debouncing.
//
// # Description
//
// Editors rarely write a file once: they truncate and write in pieces,
// or write a temporary file and rename it over the target. The watcher
// therefore watches the file's directory rather than the file itself,
// filters events down to the target path, and batches them inside a
// debounce window so one save triggers one re-analysis.
//
// # Thread Safety
//
// Safe for concurrent use. The handler is called from a single
// goroutine. Stop is idempotent.
type Watcher struct {
	target   string
	dir      string
	watcher  *fsnotify.Watcher
	handler  Handler
	debounce time.Duration

	changes  chan Change
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	watching bool
}

// WatcherOptions configures the Watcher.
type WatcherOptions struct {
	// DebounceWindow is how long to wait for more changes before
	// invoking the handler. Default: 250ms.
	DebounceWindow time.Duration

	// BufferSize is the size of the change buffer channel.
	// Default: 64.
	BufferSize int
}

// DefaultWatcherOptions returns the default configuration.
func DefaultWatcherOptions() WatcherOptions {
	return WatcherOptions{
		DebounceWindow: 250 * time.Millisecond,
		BufferSize:     64,
	}
}

// NewWatcher creates a watcher for the circuit file at path.
//
// # Inputs
//
//   - path: The circuit file to watch. The file may not exist yet; its
//     directory must.
//   - handler: Called with batched changes after each debounce window.
//   - opts: Optional configuration (nil uses defaults).
//
// # Outputs
//
//   - *Watcher: Ready to use; call Start to begin watching.
//   - error: Non-nil when the notify watcher could not be created.
func NewWatcher(path string, handler Handler, opts *WatcherOptions) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch handler must not be nil")
	}

	merged := DefaultWatcherOptions()
	if opts != nil {
		if opts.DebounceWindow > 0 {
			merged.DebounceWindow = opts.DebounceWindow
		}
		if opts.BufferSize > 0 {
			merged.BufferSize = opts.BufferSize
		}
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		target:   target,
		dir:      filepath.Dir(target),
		watcher:  watcher,
		handler:  handler,
		debounce: merged.DebounceWindow,
		changes:  make(chan Change, merged.BufferSize),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Calling Start on a running watcher is a no-op.
//
// Spawns two goroutines, an event filter and a debouncer; both exit
// when Stop is called or the context is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)

	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching reports whether the watcher is currently active.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// processEvents filters directory events down to the target file and
// feeds them to the debouncer.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}

			change := Change{Op: event.Op, Time: time.Now()}
			select {
			case w.changes <- change:
			default:
				// Buffer full; the debouncer already has enough to
				// trigger a re-analysis.
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Not fatal; the next event still arrives.
		}
	}
}

// debounceLoop batches changes and calls the handler once the window
// closes without new changes.
func (w *Watcher) debounceLoop(ctx context.Context) {
	var batch []Change
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			out := make([]Change, len(batch))
			copy(out, batch)
			w.handler(out)
			batch = batch[:0]
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case change := <-w.changes:
			batch = append(batch, change)

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			flush()
		}
	}
}
