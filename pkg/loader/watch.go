package loader

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/chazu/partview/pkg/logging"
)

// Watcher re-triggers a load whenever a local model file is rewritten,
// so an exported revision shows up without the operator re-picking the
// file. Each change issues a fresh token through the normal load path;
// stale-suppression semantics are unchanged.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
}

// Watch starts watching path and reloads it with tag on every write.
// Close the returned Watcher to stop.
func Watch(ctx context.Context, l *Loader, path, tag string, cb Callbacks) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{watcher: fw, cancel: cancel}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				logging.Debug("watched file changed, reloading", "path", ev.Name)
				l.Load(ctx, path, tag, cb)
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logging.Warn("file watch error", "err", err)
			}
		}
	}()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	return w.watcher.Close()
}
