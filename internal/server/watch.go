package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the bursts of events editors emit on save.
const reloadDebounce = 100 * time.Millisecond

// watcher reports changes to a single file. It watches the parent directory
// because editors often replace a file instead of writing it in place.
type watcher struct {
	path    string
	fw      *fsnotify.Watcher
	logger  *log.Logger
	changed chan struct{}
}

func newWatcher(path string, logger *log.Logger) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &watcher{path: abs, fw: fw, logger: logger, changed: make(chan struct{}, 1)}, nil
}

// run calls reload after each settled change until ctx is done.
func (w *watcher) run(ctx context.Context, reload func(context.Context) error) {
	defer w.fw.Close()

	var pending bool
	var last time.Time
	ticker := time.NewTicker(reloadDebounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
				last = time.Now()
			}

		case <-ticker.C:
			if !pending || time.Since(last) < reloadDebounce {
				continue
			}
			pending = false
			if err := reload(ctx); err != nil {
				w.logger.Warn("reload failed, keeping previous dataset", "path", w.path, "err", err)
				continue
			}
			select {
			case w.changed <- struct{}{}:
			default:
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}
