// Package watcher reports external changes to files the editor has open.
//
// Each tracked path keeps a snapshot of what the editor last read or wrote.
// Scan compares the file on disk against that snapshot: size and modtime
// first, then a content hash. Changes surface on Events. Start adds a polling
// loop plus fsnotify directory watches so edits are noticed promptly.
package watcher

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type EventKind int

const (
	EventChanged EventKind = iota + 1
	EventMissing
)

func (k EventKind) String() string {
	switch k {
	case EventChanged:
		return "changed"
	case EventMissing:
		return "missing"
	default:
		return "unknown"
	}
}

type Snapshot struct {
	ModTime time.Time
	Size    int64
	Hash    string
	Exists  bool
}

type Event struct {
	Path string
	Kind EventKind
	Prev Snapshot
	Curr Snapshot
}

type Options struct {
	// Interval between polling scans started by Start. Zero means 2s.
	Interval time.Duration
	// HashUnchanged hashes content even when size and modtime match the
	// snapshot.
	HashUnchanged bool
	// Notify adds fsnotify watches on the parent directories of tracked
	// files when Start is called.
	Notify bool
	Logger *slog.Logger
}

type tracked struct {
	snap    Snapshot
	missing bool
	// writes in progress; scans skip held paths
	holds int
}

type Watcher struct {
	opts   Options
	log    *slog.Logger
	events chan Event

	mu    sync.Mutex
	files map[string]*tracked
	dirs  map[string]int

	notify   *fsnotify.Watcher
	stop     chan struct{}
	done     sync.WaitGroup
	started  bool
	stopOnce sync.Once
}

func New(opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		opts:   opts,
		log:    log,
		events: make(chan Event, 64),
		files:  make(map[string]*tracked),
		dirs:   make(map[string]int),
		stop:   make(chan struct{}),
	}
}

func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Track records data as the known content of path. Calling it again after
// the editor writes the file resets the baseline so the write is not
// reported as an external change.
func (w *Watcher) Track(path string, data []byte) {
	path = filepath.Clean(path)
	snap := Snapshot{Hash: hashBytes(data)}
	if info, err := os.Stat(path); err == nil {
		snap.ModTime = info.ModTime()
		snap.Size = info.Size()
		snap.Exists = true
	}

	w.mu.Lock()
	prev, known := w.files[path]
	next := &tracked{snap: snap, missing: !snap.Exists}
	if known {
		next.holds = prev.holds
	}
	w.files[path] = next
	notify := w.notify
	w.mu.Unlock()

	if !known && notify != nil {
		w.addDir(notify, filepath.Dir(path))
	}
}

// Hold pauses change detection on path until release is called. A writer
// holds the path for the duration of the write and calls Track before
// releasing, so neither a half-written file nor the finished write is
// reported as a change. Holding an untracked path does nothing.
func (w *Watcher) Hold(path string) (release func()) {
	path = filepath.Clean(path)
	w.mu.Lock()
	t, held := w.files[path]
	if held {
		t.holds++
	}
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			if !held {
				return
			}
			w.mu.Lock()
			if t, ok := w.files[path]; ok && t.holds > 0 {
				t.holds--
			}
			w.mu.Unlock()
		})
	}
}

// Forget stops tracking path.
func (w *Watcher) Forget(path string) {
	path = filepath.Clean(path)
	w.mu.Lock()
	_, known := w.files[path]
	delete(w.files, path)
	notify := w.notify
	w.mu.Unlock()

	if known && notify != nil {
		w.removeDir(notify, filepath.Dir(path))
	}
}

// Tracked reports whether path is being watched.
func (w *Watcher) Tracked(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[filepath.Clean(path)]
	return ok
}

// Scan checks every tracked file once.
func (w *Watcher) Scan() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	w.mu.Unlock()

	for _, p := range paths {
		w.scanPath(p)
	}
}

func (w *Watcher) scanPath(path string) {
	info, statErr := os.Stat(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.files[path]
	if !ok || t.holds > 0 {
		return
	}

	if statErr != nil {
		if !errors.Is(statErr, fs.ErrNotExist) {
			w.log.Warn("stat watched file", "path", path, "err", statErr)
			return
		}
		if t.missing {
			return
		}
		t.missing = true
		w.emit(Event{Path: path, Kind: EventMissing, Prev: t.snap})
		return
	}

	curr := Snapshot{ModTime: info.ModTime(), Size: info.Size(), Exists: true}
	if !t.missing && !w.opts.HashUnchanged && curr.Size == t.snap.Size && curr.ModTime.Equal(t.snap.ModTime) {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		w.log.Warn("read watched file", "path", path, "err", err)
		return
	}
	curr.Hash = hashBytes(data)

	prev := t.snap
	reappeared := t.missing
	t.snap = curr
	t.missing = false
	if reappeared || curr.Hash != prev.Hash {
		w.emit(Event{Path: path, Kind: EventChanged, Prev: prev, Curr: curr})
	}
}

// emit never blocks; a full buffer drops the event. Caller holds w.mu.
func (w *Watcher) emit(evt Event) {
	select {
	case w.events <- evt:
	default:
		w.log.Warn("watch event dropped", "path", evt.Path, "kind", evt.Kind.String())
	}
}

// Start launches the polling loop and, with Options.Notify, fsnotify
// watches. It is a no-op after the first call.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	if w.opts.Notify {
		nw, err := fsnotify.NewWatcher()
		if err != nil {
			w.log.Warn("fsnotify unavailable, polling only", "err", err)
		} else {
			w.mu.Lock()
			w.notify = nw
			dirs := make([]string, 0, len(w.files))
			for p := range w.files {
				dirs = append(dirs, filepath.Dir(p))
			}
			w.mu.Unlock()
			for _, dir := range dirs {
				w.addDir(nw, dir)
			}
			w.done.Add(1)
			go w.notifyLoop(nw)
		}
	}

	w.done.Add(1)
	go w.pollLoop()
	return nil
}

func (w *Watcher) pollLoop() {
	defer w.done.Done()
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

func (w *Watcher) notifyLoop(nw *fsnotify.Watcher) {
	defer w.done.Done()
	for {
		select {
		case <-w.stop:
			return
		case evt, ok := <-nw.Events:
			if !ok {
				return
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			w.scanPath(filepath.Clean(evt.Name))
		case err, ok := <-nw.Errors:
			if !ok {
				return
			}
			w.log.Warn("fsnotify error", "err", err)
		}
	}
}

// addDir refcounts directory watches since several files may share one.
func (w *Watcher) addDir(nw *fsnotify.Watcher, dir string) {
	w.mu.Lock()
	w.dirs[dir]++
	first := w.dirs[dir] == 1
	w.mu.Unlock()
	if !first {
		return
	}
	if err := nw.Add(dir); err != nil {
		w.log.Warn("watch directory", "dir", dir, "err", err)
	}
}

func (w *Watcher) removeDir(nw *fsnotify.Watcher, dir string) {
	w.mu.Lock()
	w.dirs[dir]--
	last := w.dirs[dir] <= 0
	if last {
		delete(w.dirs, dir)
	}
	w.mu.Unlock()
	if !last {
		return
	}
	if err := nw.Remove(dir); err != nil {
		w.log.Debug("unwatch directory", "dir", dir, "err", err)
	}
}

// Stop ends the background loops. Events stays open so pending events can
// still be drained.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.mu.Lock()
		nw := w.notify
		w.notify = nil
		w.mu.Unlock()
		if nw != nil {
			_ = nw.Close()
		}
		w.done.Wait()
	})
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
