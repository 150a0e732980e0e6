// Package inbox stages media dropped into a watched directory.
package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dmitrijs2005/recoveryvault/internal/draft"
	"github.com/dmitrijs2005/recoveryvault/internal/filex"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long a file must be quiet before it is staged.
const DefaultDelay = 500 * time.Millisecond

// test seams
var (
	newFSWatcher = fsnotify.NewWatcher
	detectKind   = draft.DetectFileKind
)

// StageFunc receives each settled file. It runs on the watcher goroutine.
type StageFunc func(path string, kind journal.MediaKind)

type Watcher struct {
	dir      string
	patterns []string
	delay    time.Duration
	logger   logging.Logger
}

// NewWatcher watches dir (not recursively). patterns are doublestar globs
// matched against the file name; none means every file.
func NewWatcher(dir string, patterns []string, delay time.Duration, logger logging.Logger) *Watcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Watcher{dir: dir, patterns: patterns, delay: delay, logger: logger.With("module", "inbox")}
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context, stage StageFunc) error {
	dir, err := filex.EnsureDir(w.dir)
	if err != nil {
		return fmt.Errorf("inbox dir: %w", err)
	}

	fw, err := newFSWatcher()
	if err != nil {
		return fmt.Errorf("inbox watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	d := NewDebouncer(w.delay)
	defer d.Stop()

	w.logger.Info(ctx, "inbox watcher started", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(d, ev)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error(ctx, "inbox watcher error", "error", err)

		case path := <-d.Events():
			kind, err := detectKind(path)
			if err != nil {
				w.logger.Warn(ctx, "inbox file skipped", "path", path, "error", err)
				continue
			}
			w.logger.Info(ctx, "inbox file staged", "path", path, "kind", kind)
			stage(path, kind)
		}
	}
}

func (w *Watcher) handle(d *Debouncer, ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		if !w.accepts(ev.Name) {
			return
		}
		if info, err := os.Stat(ev.Name); err != nil || info.IsDir() {
			return
		}
		d.Add(ev.Name)

	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		d.Cancel(ev.Name)
	}
}

// accepts filters hidden and partial files, then applies the patterns.
func (w *Watcher) accepts(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".tmp") {
		return false
	}
	if len(w.patterns) == 0 {
		return true
	}
	for _, p := range w.patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
