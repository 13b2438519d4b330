// SPDX-FileCopyrightText: The TheraFinder Authors
//
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/carmenbhuber/TheraFinder/internal/logger"
)

// DefaultDebounce collapses bursts of file events into a single change notification.
const DefaultDebounce = 500 * time.Millisecond

// Watch calls onChange whenever the file at path is written, created or replaced. It watches
// the parent directory, so the watch survives editors that save by renaming a temporary file.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, log *logger.Logger, onChange func()) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Error("failed to close file watcher", logger.Err(err))
		}
	}()
	if err = watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch directory of %q: %w", path, err)
	}

	timer := time.NewTimer(debounce)
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
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher reported an error", logger.Err(err))
		case <-timer.C:
			onChange()
		}
	}
}
