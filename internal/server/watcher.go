package server

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/litescript/ls-natal/internal/aspect"
	"github.com/litescript/ls-natal/internal/logging"
)

// OrbWatcher reloads an orb table file when it changes and hands the new
// set to apply. A file that fails to load is logged and skipped; the
// previous set stays in effect.
type OrbWatcher struct {
	Path string

	apply   func(aspect.OrbSet)
	log     *logging.Logger
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewOrbWatcher creates a watcher for the orb file at path.
func NewOrbWatcher(path string, apply func(aspect.OrbSet), log *logging.Logger) (*OrbWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	return &OrbWatcher{
		Path:    abs,
		apply:   apply,
		log:     log,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching. The parent directory is watched so editors that
// replace the file by rename are still seen.
func (w *OrbWatcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and waits for the loop to exit.
func (w *OrbWatcher) Stop() {
	w.watcher.Close()
	<-w.done
}

func (w *OrbWatcher) loop() {
	defer close(w.done)

	// Debounce bursts of writes from a single save.
	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= debounce {
				pending = time.Time{}
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("orb watcher: %v", err)
		}
	}
}

func (w *OrbWatcher) reload() {
	set, err := aspect.LoadOrbFile(w.Path)
	if err != nil {
		w.log.Warn("orb watcher: keeping previous orbs: %v", err)
		return
	}
	w.log.Info("orb watcher: reloaded %s", w.Path)
	w.apply(set)
}
