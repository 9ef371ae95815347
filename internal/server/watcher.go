package server

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// debounceWindow coalesces editor save bursts into one rebuild.
const debounceWindow = 300 * time.Millisecond

// newWatcher creates a recursive fsnotify watcher over the given roots.
// Non-existent roots are skipped so an optional theme dir does not break
// serving.
func newWatcher(roots ...string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		if root == "" {
			continue
		}
		st, err := os.Stat(root)
		if err != nil {
			continue
		}
		if !st.IsDir() {
			// Single file (e.g. the config file): watch its directory so
			// atomic-save renames are seen.
			if err := w.Add(filepath.Dir(root)); err != nil {
				slog.Warn("watch add failed", logfields.Dir(filepath.Dir(root)), logfields.Error(err))
			}
			continue
		}
		if err := addDirsRecursive(w, root); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return w, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Dir(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent filters hidden files and editor temp/swap noise.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db" || base == "4913" // vim creates 4913 to probe write access
}

// debouncer turns a burst of triggers into a single signal on req after the
// debounce window passes without further triggers.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	req   chan struct{}
}

func newDebouncer() *debouncer {
	return &debouncer{req: make(chan struct{}, 1)}
}

func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(debounceWindow, func() {
		select {
		case d.req <- struct{}{}:
		default:
		}
	})
}

// Request requeues a rebuild request directly, bypassing the debounce
// window (used by the coalescing worker and the scheduler).
func (d *debouncer) Request() {
	select {
	case d.req <- struct{}{}:
	default:
	}
}
