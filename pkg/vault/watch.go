package vault

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/cognetkb/cognet/pkg/errors"
)

// DefaultDebounce batches filesystem event bursts (editors tend to write a
// note with several syscalls in quick succession).
const DefaultDebounce = 300 * time.Millisecond

// Watcher re-runs a callback whenever Markdown files in the vault change.
type Watcher struct {
	Logger   *log.Logger
	Debounce time.Duration

	opts    Options
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	pending int
}

// NewWatcher creates a watcher over the vault described by opts.
func NewWatcher(opts Options, logger *log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create filesystem watcher")
	}
	w := &Watcher{
		Logger:   logger,
		Debounce: DefaultDebounce,
		opts:     opts,
		watcher:  fsw,
	}
	if err := w.addRecursive(opts.Root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// addRecursive registers every non-ignored directory under root.
// fsnotify does not watch recursively on its own.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel != "." {
			base := filepath.Base(rel)
			if strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			if !w.opts.IncludeArchive && w.opts.ArchiveDir != "" && rel == filepath.ToSlash(w.opts.ArchiveDir) {
				return filepath.SkipDir
			}
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", path)
		}
		return nil
	})
}

// Run blocks, invoking onChange after each debounced burst of Markdown
// changes, until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	defer w.watcher.Close()
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event, fire)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Error("watcher error", "error", err)

		case <-fire:
			w.mu.Lock()
			n := w.pending
			w.pending = 0
			w.mu.Unlock()
			w.Logger.Info("vault changed, re-checking", "events", n)
			if err := onChange(ctx); err != nil {
				w.Logger.Error("check failed", "error", err)
			}
		}
	}
}

// handle filters one event and schedules a debounced fire.
func (w *Watcher) handle(event fsnotify.Event, fire chan<- struct{}) {
	// New directories need to be registered as they appear.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	}
	if !isMarkdown(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.Logger.Debug("event received", "op", event.Op.String(), "path", event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending++
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}
