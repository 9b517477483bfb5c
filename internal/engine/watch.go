package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces editor write bursts into a single rerun.
const watchDebounce = 300 * time.Millisecond

// Watch re-discovers and re-lints the corpus whenever a Markdown file
// under the reports directory changes, calling onChange with each result.
// It blocks until the context is canceled.
func (e *Engine) Watch(ctx context.Context, onChange func(*LintResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := e.watchDir(watcher, e.reportsDir); err != nil {
		return fmt.Errorf("failed to watch reports dir: %w", err)
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			select {
			case pending <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			// New subdirectories need watching too.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = e.watchDir(watcher, event.Name)
				}
			}
			e.logger.Debug("corpus change detected", "path", event.Name, "op", event.Op.String())
			schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watch error", "error", err)

		case <-pending:
			if _, err := e.Discover(); err != nil {
				e.logger.Warn("rediscovery failed", "error", err)
				continue
			}
			result, err := e.LintAll(ctx)
			if err != nil {
				e.logger.Warn("relint failed", "error", err)
				continue
			}
			if onChange != nil {
				onChange(result)
			}
		}
	}
}

// watchDir recursively adds a directory tree to the watcher, skipping
// hidden and underscore-prefixed directories.
func (e *Engine) watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// relevantEvent filters watcher noise down to Markdown content changes.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") {
		return false
	}
	// Directory events carry no extension; keep them so new trees get
	// picked up.
	ext := filepath.Ext(base)
	return ext == "" || strings.EqualFold(ext, ".md")
}
