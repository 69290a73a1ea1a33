package docstore

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
	"github.com/unkn0wn-root/envdesk/internal/prefs"
)

type memFS struct {
	mu        sync.Mutex
	files     map[string]string
	failWrite map[string]bool
	writes    []string
	watchers  map[WatchHandle]memWatch
	seq       int
}

type memWatch struct {
	path string
	fn   func(string)
}

func newMemFS(files map[string]string) *memFS {
	if files == nil {
		files = map[string]string{}
	}
	return &memFS{files: files, failWrite: map[string]bool{}, watchers: map[WatchHandle]memWatch{}}
}

func (m *memFS) ReadTextFile(_ context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.files[path]
	if !ok {
		return "", errdef.Wrap(errdef.CodeFilesystem, errors.New("no such file"), "read %s", path)
	}
	return text, nil
}

func (m *memFS) WriteTextFile(_ context.Context, path, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite[path] {
		return errdef.Wrap(errdef.CodeFilesystem, errors.New("permission denied"), "write %s", path)
	}
	m.files[path] = text
	m.writes = append(m.writes, path)
	return nil
}

func (m *memFS) FileExists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

func (m *memFS) SplitPath(path string) (string, string) {
	return filepath.Base(path), filepath.Dir(path)
}

func (m *memFS) Watch(path string, fn func(string)) (WatchHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	h := WatchHandle(strconv.Itoa(m.seq))
	m.watchers[h] = memWatch{path: path, fn: fn}
	return h, nil
}

func (m *memFS) Unwatch(h WatchHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.watchers, h)
	return nil
}

// external simulates another program editing path.
func (m *memFS) external(path, text string) {
	m.mu.Lock()
	m.files[path] = text
	var fns []func(string)
	for _, w := range m.watchers {
		if w.path == path {
			fns = append(fns, w.fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(path)
	}
}

func (m *memFS) remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
}

func (m *memFS) read(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[path]
}

func (m *memFS) watchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watchers)
}

type fakeDialogs struct {
	save      DialogResult
	open      DialogResult
	saveCalls []SaveOptions
	openCalls []OpenOptions
}

func (f *fakeDialogs) PromptSaveLocation(_ context.Context, opts SaveOptions) (DialogResult, error) {
	f.saveCalls = append(f.saveCalls, opts)
	return f.save, nil
}

func (f *fakeDialogs) PromptOpenLocation(_ context.Context, opts OpenOptions) (DialogResult, error) {
	f.openCalls = append(f.openCalls, opts)
	return f.open, nil
}

func cancelled() DialogResult { return DialogResult{Cancelled: true} }

func chose(paths ...string) DialogResult { return DialogResult{Paths: paths} }

// brokenPrefs fails every call.
type brokenPrefs struct{}

var errBroken = errdef.New(errdef.CodePreferences, "disk full")

func (brokenPrefs) ListLinked() ([]prefs.Record, error) { return nil, errBroken }
func (brokenPrefs) UpsertLinked(prefs.Record) error { return errBroken }
func (brokenPrefs) UpdateLinked(string, prefs.Patch) (bool, error) { return false, errBroken }
func (brokenPrefs) RemoveLinked(string) error { return errBroken }
func (brokenPrefs) SetOpen(string, bool) (bool, error) { return false, errBroken }
func (brokenPrefs) GetCurrentView() (string, error) { return "", errBroken }
func (brokenPrefs) SetCurrentView(string) error { return errBroken }
func (brokenPrefs) ClearAll() error { return errBroken }
func (brokenPrefs) Close() error { return nil }
