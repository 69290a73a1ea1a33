package docstore

type EventKind int

const (
	EventAdded EventKind = iota + 1
	EventRemoved
	EventActiveChanged
	EventUpdated
	EventRenamed
	EventSaved
	EventReloaded
	// EventExternalChange reports that a watched file changed on disk. It is
	// advisory: the document is not modified.
	EventExternalChange
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	case EventActiveChanged:
		return "active"
	case EventUpdated:
		return "updated"
	case EventRenamed:
		return "renamed"
	case EventSaved:
		return "saved"
	case EventReloaded:
		return "reloaded"
	case EventExternalChange:
		return "external_change"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind  EventKind
	DocID string
	Path  string
}

// Subscribe registers fn for store events and returns a function that
// removes it. fn runs synchronously after the mutation is committed, on the
// goroutine that caused it (the watcher goroutine for external changes).
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subSeq++
	id := s.subSeq
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(evts ...Event) {
	if len(evts) == 0 {
		return
	}
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, evt := range evts {
		for _, fn := range fns {
			fn(evt)
		}
	}
}
