// Package docstore holds the set of open environment documents and the
// operations that edit, save, reload and compare them with disk.
//
// State mutations are synchronous: after a mutator returns, readers see the
// new state. Operations that touch the disk or prompt the user take a context,
// run their I/O without holding the store lock and commit the result
// afterwards. Preference writes are best effort and only logged on failure.
package docstore

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/unkn0wn-root/envdesk/internal/envfile"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
	"github.com/unkn0wn-root/envdesk/internal/errdef"
	"github.com/unkn0wn-root/envdesk/internal/prefs"
)

const tracerName = "github.com/unkn0wn-root/envdesk/internal/docstore"

type Options struct {
	Logger *slog.Logger
	Tracer trace.Tracer
}

type Store struct {
	fs      FileSystem
	dialogs Dialogs
	prefs   prefs.Store
	log     *slog.Logger
	tracer  trace.Tracer

	mu     sync.RWMutex
	docs   []*Document
	active string

	watchMu  sync.Mutex
	watching bool
	watches  map[string]WatchHandle

	subMu  sync.Mutex
	subs   map[int]func(Event)
	subSeq int
}

// New builds a store over the given ports. A nil preferences store keeps
// preferences in memory.
func New(fs FileSystem, dialogs Dialogs, p prefs.Store, opts Options) *Store {
	if p == nil {
		p = prefs.NewMemory()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Store{
		fs:      fs,
		dialogs: dialogs,
		prefs:   p,
		log:     log,
		tracer:  tracer,
		watches: make(map[string]WatchHandle),
		subs:    make(map[int]func(Event)),
	}
}

// Documents returns copies of all open documents in sidebar order.
func (s *Store) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, len(s.docs))
	for i, d := range s.docs {
		out[i] = d.copy()
	}
	return out
}

// Document returns a copy of the document with id.
func (s *Store) Document(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d := s.findLocked(id); d != nil {
		return d.copy(), true
	}
	return Document{}, false
}

// ActiveID returns the active document id or "".
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Active returns the active document.
func (s *Store) Active() (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d := s.findLocked(s.active); d != nil {
		return d.copy(), true
	}
	return Document{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// FindByPath returns the id of the open document backed by path.
func (s *Store) FindByPath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.Path == path {
			return d.ID, true
		}
	}
	return "", false
}

func (s *Store) findLocked(id string) *Document {
	if id == "" {
		return nil
	}
	for _, d := range s.docs {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i, d := range s.docs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return errdef.New(errdef.CodeNotFound, "document %q is not open", id)
}

// AddDocument opens a document for entries, makes it active and records it
// as open in preferences. The disk snapshot is the env rendering of entries.
func (s *Store) AddDocument(path, name string, entries []envfile.Entry, displayName string) string {
	return s.addDocument(path, name, entries, displayName, envfmt.Env(entries))
}

func (s *Store) addDocument(path, name string, entries []envfile.Entry, displayName, diskText string) string {
	displayName = strings.TrimSpace(displayName)
	if name == "" && path != "" {
		name, _ = s.fs.SplitPath(path)
	}
	if path != "" && displayName == "" {
		displayName = s.rememberedDisplayName(path)
	}
	if entries == nil {
		entries = []envfile.Entry{}
	}

	doc := &Document{
		ID:                   uuid.NewString(),
		Path:                 path,
		Name:                 name,
		DisplayName:          displayName,
		Entries:              envfile.Clone(entries, false),
		LastKnownDiskContent: diskText,
	}

	s.mu.Lock()
	s.docs = append(s.docs, doc)
	s.active = doc.ID
	s.mu.Unlock()

	if path != "" {
		s.link(path, displayName)
		s.prefsCall("set current view", func() error { return s.prefs.SetCurrentView(path) })
		s.watchDoc(doc.ID, path)
	}
	s.log.Debug("document added", "id", doc.ID, "path", path, "entries", len(entries))
	s.publish(Event{Kind: EventAdded, DocID: doc.ID, Path: path}, Event{Kind: EventActiveChanged, DocID: doc.ID, Path: path})
	return doc.ID
}

// RemoveDocument closes a document. When it was active the first remaining
// document becomes active. The preferences record is kept but marked closed.
func (s *Store) RemoveDocument(id string) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	doc := s.docs[idx]
	s.docs = append(s.docs[:idx], s.docs[idx+1:]...)
	activeChanged := false
	nextPath := ""
	if s.active == id {
		activeChanged = true
		s.active = ""
		if len(s.docs) > 0 {
			s.active = s.docs[0].ID
			nextPath = s.docs[0].Path
		}
	}
	newActive := s.active
	s.mu.Unlock()

	s.unwatchDoc(id)
	if doc.Path != "" {
		s.prefsCall("mark closed", func() error {
			_, err := s.prefs.SetOpen(doc.Path, false)
			return err
		})
	}
	evts := []Event{{Kind: EventRemoved, DocID: id, Path: doc.Path}}
	if activeChanged {
		s.prefsCall("set current view", func() error { return s.prefs.SetCurrentView(nextPath) })
		evts = append(evts, Event{Kind: EventActiveChanged, DocID: newActive, Path: nextPath})
	}
	s.publish(evts...)
}

// SetActive selects a document. An empty id clears the selection; unknown
// ids are ignored.
func (s *Store) SetActive(id string) {
	s.mu.Lock()
	path := ""
	if id != "" {
		d := s.findLocked(id)
		if d == nil {
			s.mu.Unlock()
			return
		}
		path = d.Path
	}
	if s.active == id {
		s.mu.Unlock()
		return
	}
	s.active = id
	s.mu.Unlock()

	if id == "" || path != "" {
		s.prefsCall("set current view", func() error { return s.prefs.SetCurrentView(path) })
	}
	s.publish(Event{Kind: EventActiveChanged, DocID: id, Path: path})
}

// UpdateEntries replaces a document's entries and marks it dirty.
func (s *Store) UpdateEntries(id string, entries []envfile.Entry) {
	_ = s.edit(id, func(d *Document) error {
		d.Entries = envfile.Clone(entries, false)
		return nil
	})
}

// MarkDirty overrides the dirty flag.
func (s *Store) MarkDirty(id string, dirty bool) {
	s.mu.Lock()
	d := s.findLocked(id)
	if d == nil || d.Dirty == dirty {
		s.mu.Unlock()
		return
	}
	d.Dirty = dirty
	path := d.Path
	s.mu.Unlock()
	s.publish(Event{Kind: EventUpdated, DocID: id, Path: path})
}

// Reorder moves the entry at from to position to. Identical or out of range
// positions leave the document untouched.
func (s *Store) Reorder(id string, from, to int) {
	s.mu.RLock()
	d := s.findLocked(id)
	valid := d != nil && from != to && from >= 0 && to >= 0 && from < len(d.Entries) && to < len(d.Entries)
	s.mu.RUnlock()
	if !valid {
		return
	}
	_ = s.edit(id, func(d *Document) error {
		d.Entries = envfile.Move(d.Entries, from, to)
		return nil
	})
}

// Rename sets the display name and remembers it for the file. An empty name
// reverts to the file name.
func (s *Store) Rename(id, displayName string) {
	displayName = strings.TrimSpace(displayName)
	s.mu.Lock()
	d := s.findLocked(id)
	if d == nil {
		s.mu.Unlock()
		return
	}
	d.DisplayName = displayName
	path := d.Path
	s.mu.Unlock()

	if path != "" {
		s.prefsCall("rename", func() error {
			found, err := s.prefs.UpdateLinked(path, prefs.Patch{DisplayName: prefs.String(displayName)})
			if err == nil && !found {
				err = s.prefs.UpsertLinked(prefs.RecordFor(path, displayName, true))
			}
			return err
		})
	}
	s.publish(Event{Kind: EventRenamed, DocID: id, Path: path})
}

// edit runs fn against the live document and marks it dirty when fn
// succeeds.
func (s *Store) edit(id string, fn func(d *Document) error) error {
	s.mu.Lock()
	d := s.findLocked(id)
	if d == nil {
		s.mu.Unlock()
		return notFound(id)
	}
	if err := fn(d); err != nil {
		s.mu.Unlock()
		return err
	}
	d.Dirty = true
	path := d.Path
	s.mu.Unlock()
	s.publish(Event{Kind: EventUpdated, DocID: id, Path: path})
	return nil
}

func (s *Store) rememberedDisplayName(path string) string {
	recs, err := s.prefs.ListLinked()
	if err != nil {
		s.log.Warn("preferences unavailable", "op", "list linked", "err", err)
		return ""
	}
	if rec, ok := prefs.Find(recs, path); ok {
		return rec.DisplayName
	}
	return ""
}

// link records path as open. An existing record keeps its display name
// unless a new one is given.
func (s *Store) link(path, displayName string) {
	s.prefsCall("link file", func() error {
		rec := prefs.RecordFor(path, displayName, true)
		patch := prefs.Patch{
			ProjectName: prefs.String(rec.ProjectName),
			EnvName:     prefs.String(rec.EnvName),
			IsOpen:      prefs.Bool(true),
		}
		if displayName != "" {
			patch.DisplayName = prefs.String(displayName)
		}
		found, err := s.prefs.UpdateLinked(path, patch)
		if err != nil || found {
			return err
		}
		return s.prefs.UpsertLinked(rec)
	})
}

func (s *Store) prefsCall(op string, fn func() error) {
	if err := fn(); err != nil {
		s.log.Warn("preferences unavailable", "op", op, "err", err)
	}
}
