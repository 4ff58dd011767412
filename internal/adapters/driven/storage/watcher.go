// Package storage provides shared storage infrastructure: a watcher that
// notices external changes to the paymate data directory, so a long-lived
// status view reflects a disconnect issued by another process.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stylequest-labs/paymate-cli/internal/logger"
)

// debounceWindow coalesces the burst of events a single SQLite commit
// produces (db, WAL, and shm files all change).
const debounceWindow = 250 * time.Millisecond

// Watcher reports changes made to the data directory by other processes.
type Watcher struct {
	fsw     *fsnotify.Watcher
	dataDir string
}

// NewWatcher creates a watcher over the given data directory.
func NewWatcher(dataDir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := fsw.Add(dataDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dataDir, err)
	}

	return &Watcher{fsw: fsw, dataDir: dataDir}, nil
}

// Run invokes onChange whenever the token database is written or removed,
// debounced, until the context is cancelled.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("data dir change: %s %s", event.Op, event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			onChange()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("data dir watcher: %v", err)
		}
	}
}

// Close releases the underlying OS watches.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant filters for database mutations; chmod noise is ignored.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.Contains(event.Name, "paymate.db")
}
