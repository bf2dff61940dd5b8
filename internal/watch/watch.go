// Package watch recompiles source files on write, for `tacc -watch`.
// Grounded on Orizon's internal/runtime/vfs Watcher/Event/WatchOp shape
// (vfs.go, watch_fsnotify.go): a small op bitmask translated from
// fsnotify's own, so the driver never imports fsnotify directly.
package watch

import (
	"github.com/fsnotify/fsnotify"
)

// Op is a bitmask of filesystem change kinds, translated from
// fsnotify.Op the same way vfs.WatchOp is.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is one filesystem change notification.
type Event struct {
	Path string
	Op   Op
}

// Watcher is the interface the driver depends on; FSWatcher is its only
// implementation but tests can supply a fake.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(path string) error
	Close() error
}

// FSWatcher wraps an *fsnotify.Watcher, translating its events onto Op
// and Event the way vfs.FSNotifyWatcher does.
type FSWatcher struct {
	w   *fsnotify.Watcher
	evC chan Event
	erC chan error
}

// NewFSWatcher starts a new FSWatcher backed by the OS's native file
// notification facility.
func NewFSWatcher() (*FSWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &FSWatcher{w: w, evC: make(chan Event, 128), erC: make(chan error, 1)}
	go fw.loop()
	return fw, nil
}

func (fw *FSWatcher) loop() {
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			var op Op
			if ev.Op&fsnotify.Create != 0 {
				op |= OpCreate
			}
			if ev.Op&fsnotify.Write != 0 {
				op |= OpWrite
			}
			if ev.Op&fsnotify.Remove != 0 {
				op |= OpRemove
			}
			if ev.Op&fsnotify.Rename != 0 {
				op |= OpRename
			}
			if ev.Op&fsnotify.Chmod != 0 {
				op |= OpChmod
			}
			fw.evC <- Event{Path: ev.Name, Op: op}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			fw.erC <- err
		}
	}
}

func (fw *FSWatcher) Events() <-chan Event  { return fw.evC }
func (fw *FSWatcher) Errors() <-chan error  { return fw.erC }
func (fw *FSWatcher) Add(path string) error { return fw.w.Add(path) }
func (fw *FSWatcher) Close() error          { return fw.w.Close() }
