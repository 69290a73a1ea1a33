// Package prefs remembers which environment files were linked to the editor,
// which of them were open and which one was active, across restarts.
//
// Storage is best effort. A missing or unreadable store behaves as if it were
// empty and write failures are reported with errdef.CodePreferences so the
// caller can log them and keep editing in memory.
package prefs

import (
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

type Record struct {
	ProjectName string `json:"projectName"`
	EnvName     string `json:"envName"`
	DisplayName string `json:"displayName,omitempty"`
	Filepath    string `json:"filepath"`
	IsOpen      bool   `json:"isOpen"`
}

// Patch carries the fields UpdateLinked should overwrite. Nil fields are left
// alone.
type Patch struct {
	ProjectName *string
	EnvName     *string
	DisplayName *string
	IsOpen      *bool
}

func (p Patch) apply(r Record) Record {
	if p.ProjectName != nil {
		r.ProjectName = *p.ProjectName
	}
	if p.EnvName != nil {
		r.EnvName = *p.EnvName
	}
	if p.DisplayName != nil {
		r.DisplayName = *p.DisplayName
	}
	if p.IsOpen != nil {
		r.IsOpen = *p.IsOpen
	}
	return r
}

func String(s string) *string { return &s }

func Bool(b bool) *bool { return &b }

// Store is the persisted linked-file memory. Records are keyed by Filepath
// and listed in the order they were first linked.
type Store interface {
	ListLinked() ([]Record, error)
	// UpsertLinked replaces the record with the same Filepath or appends it.
	UpsertLinked(rec Record) error
	// UpdateLinked merges p into the record for path and reports whether
	// such a record exists.
	UpdateLinked(path string, p Patch) (bool, error)
	RemoveLinked(path string) error
	SetOpen(path string, open bool) (bool, error)
	// GetCurrentView returns the path of the last active file or "".
	GetCurrentView() (string, error)
	SetCurrentView(path string) error
	ClearAll() error
	Close() error
}

// RecordFor derives a linked record from a file path. The project name is the
// parent directory name and the env name the file name.
func RecordFor(path, displayName string, open bool) Record {
	clean := filepath.Clean(path)
	return Record{
		ProjectName: filepath.Base(filepath.Dir(clean)),
		EnvName:     filepath.Base(clean),
		DisplayName: strings.TrimSpace(displayName),
		Filepath:    clean,
		IsOpen:      open,
	}
}

// Find returns the record for path from a listing.
func Find(records []Record, path string) (Record, bool) {
	for _, r := range records {
		if r.Filepath == path {
			return r, true
		}
	}
	return Record{}, false
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend rooted at path.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewFileStore(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	case "memory":
		return NewMemory(), nil
	}
	return nil, errdef.New(errdef.CodeConfig, "unknown preferences backend %q", backend)
}

// data is the document persisted by FileStore and held by Memory.
type data struct {
	CurrentView        *string  `json:"currentView"`
	LinkedEnvironments []Record `json:"linkedEnvironments"`
}

func (d *data) list() []Record {
	out := make([]Record, len(d.LinkedEnvironments))
	copy(out, d.LinkedEnvironments)
	return out
}

func (d *data) upsert(rec Record) {
	for i := range d.LinkedEnvironments {
		if d.LinkedEnvironments[i].Filepath == rec.Filepath {
			d.LinkedEnvironments[i] = rec
			return
		}
	}
	d.LinkedEnvironments = append(d.LinkedEnvironments, rec)
}

func (d *data) update(path string, p Patch) bool {
	for i := range d.LinkedEnvironments {
		if d.LinkedEnvironments[i].Filepath == path {
			d.LinkedEnvironments[i] = p.apply(d.LinkedEnvironments[i])
			return true
		}
	}
	return false
}

func (d *data) remove(path string) bool {
	kept := d.LinkedEnvironments[:0]
	removed := false
	for _, r := range d.LinkedEnvironments {
		if r.Filepath == path {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	d.LinkedEnvironments = kept
	return removed
}

func (d *data) currentView() string {
	if d.CurrentView == nil {
		return ""
	}
	return *d.CurrentView
}

func (d *data) setCurrentView(path string) {
	if path == "" {
		d.CurrentView = nil
		return
	}
	d.CurrentView = &path
}
