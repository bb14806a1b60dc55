package format

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fulmenhq/woodfmt/pkg/config"
	"github.com/fulmenhq/woodfmt/pkg/ignore"
	"github.com/fulmenhq/woodfmt/pkg/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// Watcher re-applies a transform to source files as they are written.
// Events are collected and processed on the Watch goroutine, one file at a time.
type Watcher struct {
	Root      string
	Config    config.FormatConfig
	Transform Transform
	Out       io.Writer
	Debounce  time.Duration

	// Ready is closed once the initial directory tree is being watched.
	Ready chan struct{}

	matcher    *ignore.Matcher
	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a Watcher for root.
func NewWatcher(root string, cfg config.FormatConfig, t Transform, out io.Writer) *Watcher {
	return &Watcher{
		Root:       root,
		Config:     cfg,
		Transform:  t,
		Out:        out,
		Debounce:   DefaultDebounce,
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch blocks until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	if w.Config.RespectGitignore {
		if m, err := ignore.NewMatcher(w.Root); err == nil {
			w.matcher = m
		}
	}

	if err := w.addRecursive(fw, w.Root); err != nil {
		return err
	}
	logger.Info("Watching for changes", logger.String("root", w.Root))
	if w.Ready != nil {
		close(w.Ready)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", logger.Err(err))
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path := w.handleEvent(fw, ev)
			if path == "" {
				continue
			}
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.flush(pending)
			pending = make(map[string]struct{})
		}
	}
}

func (w *Watcher) flush(pending map[string]struct{}) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		o := ApplyFile(p, w.Transform)
		switch {
		case o.Err != nil:
			logger.Error(fmt.Sprintf("Error formatting %s", p), logger.Err(o.Err))
		case o.Changed:
			_, _ = fmt.Fprintf(w.Out, "Formatted %s\n", p)
		}
	}
}

// handleEvent returns the file to format for ev, or "" when it is not relevant.
// New directories are added to the watch set.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) string {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return ""
	}
	if ev.Has(fsnotify.Create) {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			if err := w.addRecursive(fw, ev.Name); err != nil {
				logger.Error("Failed to watch new directory", logger.String("path", ev.Name), logger.Err(err))
			}
			return ""
		}
	}
	if !w.Config.HasExtension(ev.Name) || w.skipped(ev.Name, false) {
		return ""
	}
	return ev.Name
}

func (w *Watcher) skipped(path string, isDir bool) bool {
	if isDir && skipDirs[filepath.Base(path)] {
		return true
	}
	if w.matcher != nil {
		if isDir && w.matcher.IsIgnoredDir(path) {
			return true
		}
		if !isDir && w.matcher.IsIgnored(path) {
			return true
		}
	}
	return excluded(w.Root, path, w.Config.Exclude)
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.Root && w.skipped(path, true) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
