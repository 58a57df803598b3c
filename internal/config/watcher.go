package config

import (
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc receives the freshly reloaded configuration.
type ChangeFunc func(*Config)

// Watcher watches a config file and invokes a callback when it is
// rewritten. The engine uses this to feed validator
// OnConfigurationChange hooks; runs already in flight keep the
// snapshot they started with.
type Watcher struct {
	path     string
	onChange ChangeFunc

	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

// NewWatcher creates and starts a watcher for the given config file.
func NewWatcher(path string, onChange ChangeFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors often replace the file, which drops
	// a watch installed on the file itself.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		onChange: onChange,
		watcher:  fw,
		done:     make(chan struct{}),
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
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
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := LoadFile(w.path)
			if err != nil {
				log.Printf("[config] reload %s: %v", w.path, err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				log.Printf("[config] reload %s rejected: %v", w.path, err)
				continue
			}

			log.Printf("[config] reloaded %s", w.path)
			w.onChange(cfg)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[config] watch error: %v", err)

		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.once.Do(func() { close(w.done) })
	return w.watcher.Close()
}
