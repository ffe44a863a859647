// Package watch reports changes to a repository's refs.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/gitcmd/internal/debounce"
)

const DefaultDelay = 300 * time.Millisecond

// recursiveDirs are watched together with every subdirectory below them.
var recursiveDirs = []string{"refs", "logs"}

// Watcher calls onChange after a burst of ref, reflog or HEAD updates under a
// git directory has settled.
type Watcher struct {
	gitDir   string
	fsw      *fsnotify.Watcher
	debounce *debounce.Debouncer

	mu      sync.Mutex
	watched map[string]struct{}
}

func New(gitDir string, delay time.Duration, onChange func()) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{
		gitDir:   gitDir,
		fsw:      fsw,
		debounce: debounce.New(delay, onChange),
		watched:  map[string]struct{}{},
	}
	if err := w.add(gitDir); err != nil {
		return nil, errors.Join(err, fsw.Close())
	}
	for _, dir := range recursiveDirs {
		w.addRecursive(filepath.Join(gitDir, dir))
	}
	return w, nil
}

// Run dispatches events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debounce.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) Close() error {
	w.debounce.Stop()
	return w.fsw.Close()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && w.underRecursive(ev.Name) {
			w.addRecursive(ev.Name)
		}
	}
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if shouldIgnore(ev.Name) {
		return
	}
	slog.Debug("fsnotify event",
		slog.String("op", ev.Op.String()),
		slog.String("path", ev.Name),
	)
	w.debounce.Trigger()
}

func (w *Watcher) underRecursive(path string) bool {
	for _, dir := range recursiveDirs {
		rel, err := filepath.Rel(filepath.Join(w.gitDir, dir), path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watched[path]; ok {
		return nil
	}
	slog.Debug("adding path to FS watcher", slog.String("path", path))
	if err := w.fsw.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	w.watched[path] = struct{}{}
	return nil
}

func (w *Watcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := w.add(path); err != nil {
			slog.Warn("watch failed", slog.Any("error", err))
		}
		return nil
	})
}

// Watched returns the number of directories being watched.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

func shouldIgnore(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".lock", ".ipc":
		return true
	}
	base := filepath.Base(name)
	return base == "index" || strings.HasPrefix(base, "tmp_")
}
