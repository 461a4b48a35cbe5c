package timezone

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cardfolio/dashboard-sync/internal/logger"
)

// DefaultDebounce groups bursts of file events into one reload.
const DefaultDebounce = 100 * time.Millisecond

// Reloader is the part of Source the watcher drives.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Watcher reloads a Reloader whenever the preference file changes on disk.
// The parent directory is watched so atomic replacements are seen too.
type Watcher struct {
	// target receives reloads.
	target Reloader
	// path is the cleaned preference file path.
	path string
	// debounce is the quiet period before a reload.
	debounce time.Duration
}

// NewWatcher creates a watcher for the preference file at path.
func NewWatcher(target Reloader, path string) *Watcher {
	return &Watcher{
		target:   target,
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
	}
}

// Run watches until ctx is canceled. It returns nil on cancellation and an
// error only when the watch cannot be established or breaks.
//
//nolint:cyclop // The select loop is the whole function.
func (w *Watcher) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "preference-watcher")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}

	defer func() {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.ErrorKV(ctx, "Failed to close file watcher", "error", closeErr)
		}
	}()

	dir := filepath.Dir(w.path)
	if err = fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.InfoKV(ctx, "Watching preference file", "path", w.path)

	// Debounce timer, stopped until the first relevant event.
	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			debounce.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}

			logger.ErrorKV(ctx, "File watcher error", "error", err)

		case <-debounce.C:
			if err := w.target.Reload(ctx); err != nil {
				logger.ErrorKV(ctx, "Failed to reload preference", "error", err)
			}
		}
	}
}
