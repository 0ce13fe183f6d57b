// Package watcher implements file watching for watch mode.
package watcher

import (
	"context"
	"iter"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/darkroom/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 16

// Watcher reports changes to a fixed set of files. It watches the parent
// directories so editors that save by rename are still observed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	targets   map[string]struct{}
	events    chan ports.WatchEvent
	errs      func(error)
}

// NewWatcher creates a new file watcher. onError receives fsnotify errors; it may be nil.
func NewWatcher(onError func(error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Watcher{
		fsWatcher: fw,
		targets:   make(map[string]struct{}),
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		errs:      onError,
	}, nil
}

// Start begins watching the given files.
func (w *Watcher) Start(ctx context.Context, paths ...string) error {
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", p)
		}
		w.targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file events. It ends when the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if _, watched := w.targets[filepath.Clean(event.Name)]; !watched {
				continue
			}
			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}
			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.errs(zerr.Wrap(err, "file watcher error"))
		}
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
