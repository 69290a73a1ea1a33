package docstore

import (
	"context"

	"github.com/aymanbagabas/go-udiff"
	"go.opentelemetry.io/otel/attribute"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

// SyncResult compares a document's last known disk text with the file.
type SyncResult struct {
	Changed bool
	// Content is the current disk text.
	Content string
	// Diff is a unified diff from the last known text to Content, empty when
	// unchanged.
	Diff string
}

// CheckSync reads the document's file and compares it byte for byte with
// the last known content. It never modifies the document.
func (s *Store) CheckSync(ctx context.Context, id string) (res SyncResult, err error) {
	ctx, span := s.startSpan(ctx, "check_sync", id)
	defer func() { endSpan(span, err) }()

	doc, ok := s.Document(id)
	if !ok {
		return SyncResult{}, notFound(id)
	}
	if doc.Path == "" {
		return SyncResult{}, errdef.New(errdef.CodeNoPath, "%s has no file to compare", doc.Title())
	}
	text, err := s.fs.ReadTextFile(ctx, doc.Path)
	if err != nil {
		return SyncResult{}, err
	}
	res = CompareDisk(doc.Name, doc.LastKnownDiskContent, text)
	span.SetAttributes(attribute.Bool("envdesk.changed", res.Changed))
	return res, nil
}

// CompareDisk builds a SyncResult for known and current text.
func CompareDisk(name, known, current string) SyncResult {
	res := SyncResult{Content: current, Changed: known != current}
	if res.Changed {
		if name == "" {
			name = "file"
		}
		res.Diff = udiff.Unified(name+" (open)", name+" (disk)", known, current)
	}
	return res
}

// Watch subscribes every open document's file, and every document opened
// later, for external change notifications delivered as
// EventExternalChange.
func (s *Store) Watch() {
	s.watchMu.Lock()
	if s.watching {
		s.watchMu.Unlock()
		return
	}
	s.watching = true
	s.watchMu.Unlock()

	for _, d := range s.Documents() {
		if d.Path != "" {
			s.watchDoc(d.ID, d.Path)
		}
	}
}

// Unwatch drops all file subscriptions.
func (s *Store) Unwatch() {
	s.watchMu.Lock()
	s.watching = false
	handles := s.watches
	s.watches = make(map[string]WatchHandle)
	s.watchMu.Unlock()

	for id, h := range handles {
		if err := s.fs.Unwatch(h); err != nil {
			s.log.Debug("unwatch", "doc", id, "err", err)
		}
	}
}

func (s *Store) watchDoc(id, path string) {
	s.watchMu.Lock()
	if !s.watching {
		s.watchMu.Unlock()
		return
	}
	if _, ok := s.watches[id]; ok {
		s.watchMu.Unlock()
		return
	}
	s.watchMu.Unlock()

	h, err := s.fs.Watch(path, func(changed string) {
		s.log.Debug("external change", "doc", id, "path", changed)
		s.publish(Event{Kind: EventExternalChange, DocID: id, Path: changed})
	})
	if err != nil {
		s.log.Warn("watch file", "path", path, "err", err)
		return
	}

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if _, ok := s.watches[id]; ok || !s.watching {
		_ = s.fs.Unwatch(h)
		return
	}
	s.watches[id] = h
}

func (s *Store) unwatchDoc(id string) {
	s.watchMu.Lock()
	h, ok := s.watches[id]
	delete(s.watches, id)
	s.watchMu.Unlock()
	if !ok {
		return
	}
	if err := s.fs.Unwatch(h); err != nil {
		s.log.Debug("unwatch", "doc", id, "err", err)
	}
}
