// Package filesvc provides the operating system backed file access used by
// the document store along with helpers for locating environment files.
package filesvc

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/errdef"
	"github.com/unkn0wn-root/envdesk/internal/watcher"
)

type OSOptions struct {
	Watch  watcher.Options
	Logger *slog.Logger
}

type subscription struct {
	path     string
	onChange func(string)
}

// OS implements docstore.FileSystem on the local disk. Writes made through
// it re-baseline the watcher so only outside edits are reported.
type OS struct {
	log *slog.Logger
	w   *watcher.Watcher

	mu     sync.Mutex
	subs   map[docstore.WatchHandle]subscription
	seq    int
	pumpOn bool
	stop   chan struct{}
	done   chan struct{}
	closed sync.Once
}

var _ docstore.FileSystem = (*OS)(nil)

func NewOS(opts OSOptions) *OS {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	wopts := opts.Watch
	if wopts.Logger == nil {
		wopts.Logger = log
	}
	return &OS{
		log:  log,
		w:    watcher.New(wopts),
		subs: make(map[docstore.WatchHandle]subscription),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (o *OS) ReadTextFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errdef.Wrap(errdef.CodeFilesystem, err, "read %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errdef.Wrap(errdef.CodeFilesystem, err, "read %s", path)
	}
	o.rebaseline(path, data)
	return string(data), nil
}

func (o *OS) WriteTextFile(ctx context.Context, path, text string) error {
	if err := ctx.Err(); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write %s", path)
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	data := []byte(text)
	release := o.w.Hold(path)
	defer release()
	if err := os.WriteFile(path, data, mode); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write %s", path)
	}
	o.rebaseline(path, data)
	return nil
}

func (o *OS) rebaseline(path string, data []byte) {
	if o.w.Tracked(path) {
		o.w.Track(path, data)
	}
}

func (o *OS) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (o *OS) SplitPath(path string) (string, string) {
	clean := filepath.Clean(path)
	return filepath.Base(clean), filepath.Dir(clean)
}

// Watch tracks path with the current disk content as baseline. Callbacks run
// on the watcher's dispatch goroutine.
func (o *OS) Watch(path string, onChange func(path string)) (docstore.WatchHandle, error) {
	if onChange == nil {
		return "", errdef.New(errdef.CodeFilesystem, "watch %s: nil callback", path)
	}
	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", errdef.Wrap(errdef.CodeFilesystem, err, "watch %s", clean)
	}

	o.mu.Lock()
	o.seq++
	h := docstore.WatchHandle("w" + strconv.Itoa(o.seq))
	tracked := false
	for _, s := range o.subs {
		if s.path == clean {
			tracked = true
			break
		}
	}
	o.subs[h] = subscription{path: clean, onChange: onChange}
	startPump := !o.pumpOn
	o.pumpOn = true
	o.mu.Unlock()

	if !tracked {
		o.w.Track(clean, data)
	}
	if startPump {
		if err := o.w.Start(); err != nil {
			o.log.Warn("start file watcher", "err", err)
		}
		go o.pump()
	}
	return h, nil
}

func (o *OS) Unwatch(h docstore.WatchHandle) error {
	o.mu.Lock()
	sub, ok := o.subs[h]
	if !ok {
		o.mu.Unlock()
		return errdef.New(errdef.CodeNotFound, "unknown watch handle %q", string(h))
	}
	delete(o.subs, h)
	last := true
	for _, s := range o.subs {
		if s.path == sub.path {
			last = false
			break
		}
	}
	o.mu.Unlock()

	if last {
		o.w.Forget(sub.path)
	}
	return nil
}

func (o *OS) pump() {
	defer close(o.done)
	for {
		select {
		case <-o.stop:
			return
		case evt := <-o.w.Events():
			o.dispatch(evt)
		}
	}
}

func (o *OS) dispatch(evt watcher.Event) {
	o.mu.Lock()
	var fns []func(string)
	for _, s := range o.subs {
		if s.path == evt.Path {
			fns = append(fns, s.onChange)
		}
	}
	o.mu.Unlock()

	o.log.Debug("file changed on disk", "path", evt.Path, "kind", evt.Kind.String())
	for _, fn := range fns {
		fn(evt.Path)
	}
}

// Close stops watching. The OS value must not be used afterwards.
func (o *OS) Close() error {
	o.closed.Do(func() {
		o.mu.Lock()
		running := o.pumpOn
		o.pumpOn = true
		o.mu.Unlock()

		close(o.stop)
		o.w.Stop()
		if running {
			<-o.done
		}
	})
	return nil
}
