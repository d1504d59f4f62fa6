package jsondoc

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher observes the document file for writes made outside the
// editor and invokes a callback so the shell can offer a reload. The
// callback runs on the watcher goroutine; the shell is responsible for
// marshaling back onto its event loop.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewWatcher creates a watcher for the given document path
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:     path,
		debounce: 300 * time.Millisecond,
		logger:   logger,
		watcher:  fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. The containing directory is watched rather
// than the file itself so atomic replace-on-save is still observed.
func (w *Watcher) Start(onChange func(path string)) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.run(onChange)
	return nil
}

func (w *Watcher) run(onChange func(path string)) {
	var timer *time.Timer
	target := filepath.Clean(w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("document changed on disk", zap.String("path", event.Name))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				onChange(w.path)
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("document watcher error", zap.Error(err))
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
