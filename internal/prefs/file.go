package prefs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

// FileName is the JSON document written by FileStore.
const FileName = "data.temp.json"

// FileStore persists preferences as a single JSON document. Every operation
// reads the file fresh so several editor processes can share it; writers
// hold an advisory lock on a sibling .lock file.
type FileStore struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, lock: flock.New(path + ".lock")}
}

func (s *FileStore) Path() string { return s.path }

// load reads the document. Missing, empty and corrupt files all read as
// empty preferences.
func (s *FileStore) load() data {
	raw, err := os.ReadFile(s.path)
	if err != nil || len(raw) == 0 {
		return data{}
	}
	var d data
	if err := json.Unmarshal(raw, &d); err != nil {
		return data{}
	}
	return d
}

// persist atomically writes the document through a temp file and rename.
func (s *FileStore) persist(d data) error {
	if d.LinkedEnvironments == nil {
		d.LinkedEnvironments = []Record{}
	}
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errdef.Wrap(errdef.CodePreferences, err, "encode preferences")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return errdef.Wrap(errdef.CodePreferences, err, "write preferences tmp")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errdef.Wrap(errdef.CodePreferences, err, "replace preferences file")
	}
	return nil
}

func (s *FileStore) read() data {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return data{}
	}
	if err := s.lock.RLock(); err == nil {
		defer func() { _ = s.lock.Unlock() }()
	}
	return s.load()
}

// mutate applies fn under the write lock and persists when fn reports a
// change.
func (s *FileStore) mutate(fn func(*data) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return false, errdef.Wrap(errdef.CodePreferences, err, "create preferences dir")
	}
	if err := s.lock.Lock(); err != nil {
		return false, errdef.Wrap(errdef.CodePreferences, err, "lock preferences")
	}
	defer func() { _ = s.lock.Unlock() }()

	d := s.load()
	if !fn(&d) {
		return false, nil
	}
	if err := s.persist(d); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) ListLinked() ([]Record, error) {
	d := s.read()
	return d.list(), nil
}

func (s *FileStore) UpsertLinked(rec Record) error {
	_, err := s.mutate(func(d *data) bool {
		d.upsert(rec)
		return true
	})
	return err
}

func (s *FileStore) UpdateLinked(path string, p Patch) (bool, error) {
	return s.mutate(func(d *data) bool {
		return d.update(path, p)
	})
}

func (s *FileStore) RemoveLinked(path string) error {
	_, err := s.mutate(func(d *data) bool {
		return d.remove(path)
	})
	return err
}

func (s *FileStore) SetOpen(path string, open bool) (bool, error) {
	return s.UpdateLinked(path, Patch{IsOpen: Bool(open)})
}

func (s *FileStore) GetCurrentView() (string, error) {
	d := s.read()
	return d.currentView(), nil
}

func (s *FileStore) SetCurrentView(path string) error {
	_, err := s.mutate(func(d *data) bool {
		d.setCurrentView(path)
		return true
	})
	return err
}

func (s *FileStore) ClearAll() error {
	_, err := s.mutate(func(d *data) bool {
		*d = data{}
		return true
	})
	return err
}

func (s *FileStore) Close() error {
	return s.lock.Close()
}
