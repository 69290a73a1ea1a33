package docstore

import (
	"testing"

	"github.com/unkn0wn-root/envdesk/internal/envfile"
	"github.com/unkn0wn-root/envdesk/internal/prefs"
)

func newTestStore(t *testing.T, files map[string]string) (*Store, *memFS, *fakeDialogs, *prefs.Memory) {
	t.Helper()
	fs := newMemFS(files)
	dialogs := &fakeDialogs{}
	p := prefs.NewMemory()
	return New(fs, dialogs, p, Options{}), fs, dialogs, p
}

func vars(pairs ...string) []envfile.Entry {
	var out []envfile.Entry
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, envfile.Entry{ID: envfile.NewID(), Kind: envfile.KindVariable, Key: pairs[i], Value: pairs[i+1], Enabled: true})
	}
	return out
}

func TestAddDocumentActivatesAndLinks(t *testing.T) {
	s, _, _, p := newTestStore(t, nil)
	entries := vars("A", "1", "B", "two words")

	id := s.AddDocument("/work/api/.env", ".env", entries, "")
	if s.ActiveID() != id {
		t.Fatalf("ActiveID = %q, want %q", s.ActiveID(), id)
	}
	doc, ok := s.Document(id)
	if !ok {
		t.Fatalf("document not found")
	}
	if doc.Dirty {
		t.Fatalf("new document should be clean")
	}
	if want := "A=1\nB=\"two words\""; doc.LastKnownDiskContent != want {
		t.Fatalf("LastKnownDiskContent = %q, want %q", doc.LastKnownDiskContent, want)
	}

	recs, _ := p.ListLinked()
	if len(recs) != 1 {
		t.Fatalf("expected one linked record, got %+v", recs)
	}
	rec := recs[0]
	if rec.Filepath != "/work/api/.env" || !rec.IsOpen || rec.ProjectName != "api" || rec.EnvName != ".env" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if view, _ := p.GetCurrentView(); view != "/work/api/.env" {
		t.Fatalf("current view = %q", view)
	}

	entries[0].Key = "CHANGED"
	doc, _ = s.Document(id)
	if doc.Entries[0].Key != "A" {
		t.Fatalf("store must not alias caller entries")
	}
}

func TestAddDocumentRestoresRememberedDisplayName(t *testing.T) {
	s, _, _, p := newTestStore(t, nil)
	_ = p.UpsertLinked(prefs.RecordFor("/work/api/.env", "API prod", false))

	id := s.AddDocument("/work/api/.env", "", nil, "")
	doc, _ := s.Document(id)
	if doc.Name != ".env" || doc.DisplayName != "API prod" || doc.Title() != "API prod" {
		t.Fatalf("unexpected names %q / %q", doc.Name, doc.DisplayName)
	}
	recs, _ := p.ListLinked()
	if !recs[0].IsOpen || recs[0].DisplayName != "API prod" {
		t.Fatalf("expected record reopened with its display name, got %+v", recs[0])
	}
}

func TestRemoveActiveFallsBackToFirstRemaining(t *testing.T) {
	s, _, _, p := newTestStore(t, nil)
	a := s.AddDocument("/p/a/.env", ".env", nil, "")
	b := s.AddDocument("/p/b/.env", ".env", nil, "")
	c := s.AddDocument("/p/c/.env", ".env", nil, "")

	s.SetActive(b)
	s.RemoveDocument(b)
	if s.ActiveID() != a {
		t.Fatalf("ActiveID = %q, want first remaining %q", s.ActiveID(), a)
	}
	recs, _ := p.ListLinked()
	if rec, _ := prefs.Find(recs, "/p/b/.env"); rec.IsOpen {
		t.Fatalf("removed document should be marked closed")
	}
	if len(recs) != 3 {
		t.Fatalf("records must be kept on close, got %d", len(recs))
	}

	s.RemoveDocument(c)
	if s.ActiveID() != a {
		t.Fatalf("removing an inactive document changed the selection")
	}
	s.RemoveDocument(a)
	if s.ActiveID() != "" || s.Len() != 0 {
		t.Fatalf("expected no selection, got %q with %d docs", s.ActiveID(), s.Len())
	}
	if view, _ := p.GetCurrentView(); view != "" {
		t.Fatalf("expected cleared current view, got %q", view)
	}
}

func TestSetActive(t *testing.T) {
	s, _, _, p := newTestStore(t, nil)
	a := s.AddDocument("/p/a/.env", ".env", nil, "")
	_ = s.AddDocument("/p/b/.env", ".env", nil, "")

	s.SetActive(a)
	if s.ActiveID() != a {
		t.Fatalf("SetActive did not select %q", a)
	}
	if view, _ := p.GetCurrentView(); view != "/p/a/.env" {
		t.Fatalf("current view = %q", view)
	}
	s.SetActive("missing")
	if s.ActiveID() != a {
		t.Fatalf("unknown id must be ignored")
	}
	s.SetActive("")
	if _, ok := s.Active(); ok {
		t.Fatalf("expected no active document")
	}
}

func TestUpdateEntriesAndMarkDirty(t *testing.T) {
	s, _, _, _ := newTestStore(t, nil)
	id := s.AddDocument("/p/.env", ".env", vars("A", "1"), "")
	before, _ := s.Document(id)

	s.UpdateEntries(id, vars("A", "2"))
	doc, _ := s.Document(id)
	if !doc.Dirty || doc.Entries[0].Value != "2" {
		t.Fatalf("expected dirty document with new value, got %+v", doc)
	}
	if doc.LastKnownDiskContent != before.LastKnownDiskContent {
		t.Fatalf("UpdateEntries must not touch the disk snapshot")
	}

	s.MarkDirty(id, false)
	if doc, _ := s.Document(id); doc.Dirty {
		t.Fatalf("MarkDirty(false) did not clear the flag")
	}
}

func TestReorderMovesOnlyTarget(t *testing.T) {
	s, _, _, _ := newTestStore(t, nil)
	entries := vars("A", "1", "B", "2", "C", "3", "D", "4")
	id := s.AddDocument("/p/.env", ".env", entries, "")

	s.Reorder(id, 0, 2)
	doc, _ := s.Document(id)
	want := []string{entries[1].ID, entries[2].ID, entries[0].ID, entries[3].ID}
	for i, wid := range want {
		if doc.Entries[i].ID != wid {
			t.Fatalf("position %d has %q, want %q", i, doc.Entries[i].Key, wid)
		}
	}
	if !doc.Dirty {
		t.Fatalf("reorder should mark the document dirty")
	}

	other := s.AddDocument("/p/other.env", "other.env", vars("X", "1", "Y", "2"), "")
	s.Reorder(other, 1, 1)
	if doc, _ := s.Document(other); doc.Dirty {
		t.Fatalf("identical positions must be a no-op")
	}
	s.Reorder(other, 0, 9)
	if doc, _ := s.Document(other); doc.Dirty || doc.Entries[0].Key != "X" {
		t.Fatalf("out of range reorder must be a no-op")
	}
}

func TestRenamePersistsDisplayName(t *testing.T) {
	s, _, _, p := newTestStore(t, nil)
	id := s.AddDocument("/p/api/.env", ".env", nil, "")

	s.Rename(id, "  API staging ")
	doc, _ := s.Document(id)
	if doc.DisplayName != "API staging" || doc.Name != ".env" || doc.Path != "/p/api/.env" {
		t.Fatalf("unexpected document after rename %+v", doc)
	}
	recs, _ := p.ListLinked()
	if recs[0].DisplayName != "API staging" {
		t.Fatalf("display name not persisted: %+v", recs[0])
	}

	s.Rename(id, "")
	if doc, _ := s.Document(id); doc.Title() != ".env" {
		t.Fatalf("empty rename should revert to the file name, got %q", doc.Title())
	}
}

func TestPreferencesFailureDoesNotBreakEditing(t *testing.T) {
	fs := newMemFS(map[string]string{"/p/.env": "A=1"})
	s := New(fs, &fakeDialogs{}, brokenPrefs{}, Options{})

	id := s.AddDocument("/p/.env", ".env", vars("A", "1"), "")
	if s.ActiveID() != id {
		t.Fatalf("document should still open without preferences")
	}
	s.Rename(id, "x")
	s.UpdateEntries(id, vars("A", "2"))
	if err := s.Save(t.Context(), id); err != nil {
		t.Fatalf("Save with broken preferences: %v", err)
	}
	s.RemoveDocument(id)
	if s.Len() != 0 {
		t.Fatalf("document should close without preferences")
	}
	report := s.Restore(t.Context())
	if len(report.Added) != 0 {
		t.Fatalf("restore with broken preferences should open nothing")
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	s, _, _, _ := newTestStore(t, nil)
	var kinds []EventKind
	unsubscribe := s.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })

	id := s.AddDocument("", "scratch", nil, "")
	s.UpdateEntries(id, vars("A", "1"))
	s.RemoveDocument(id)
	unsubscribe()
	s.AddDocument("", "ignored", nil, "")

	want := []EventKind{EventAdded, EventActiveChanged, EventUpdated, EventRemoved, EventActiveChanged}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}
