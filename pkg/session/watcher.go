package session

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher observes the session record file and reports changes made outside
// the owning process, such as another tool rewriting the record. Consumers
// typically respond by refreshing their permission state so the store and
// the persisted record cannot silently diverge.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	log      *logrus.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewWatcher starts watching the record store's file. onChange is invoked on
// the watcher goroutine for every write, create, or remove of the record.
func NewWatcher(store *FileRecordStore, onChange func(), log *logrus.Logger) (*Watcher, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create session watcher: %w", err)
	}

	// Watch the directory, not the file: atomic saves replace the file by
	// rename, which would drop a watch on the file itself.
	dir := filepath.Dir(store.Path())
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch session directory: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		path:     store.Path(),
		onChange: onChange,
		log:      log,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.WithFields(logrus.Fields{
				"path": w.path,
				"op":   event.Op.String(),
			}).Debug("session record changed externally")
			if w.onChange != nil {
				w.onChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("session watcher error")
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.done
	return err
}
