package docstore

import (
	"github.com/unkn0wn-root/envdesk/internal/envfile"
	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

func entryNotFound(entryID string) error {
	return errdef.New(errdef.CodeNotFound, "entry %q not found", entryID)
}

// AddEntry inserts e at index at; a negative or too large index appends.
// An empty id on e is filled in. It returns the entry id.
func (s *Store) AddEntry(id string, at int, e envfile.Entry) (string, error) {
	if e.ID == "" {
		e.ID = envfile.NewID()
	}
	if e.Kind == "" {
		e.Kind = envfile.KindVariable
	}
	err := s.edit(id, func(d *Document) error {
		if at < 0 || at >= len(d.Entries) {
			d.Entries = append(d.Entries, e)
			return nil
		}
		d.Entries = append(d.Entries[:at], append([]envfile.Entry{e}, d.Entries[at:]...)...)
		return nil
	})
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

// DeleteEntry removes an entry. Removing the last entry leaves one empty
// variable so the document always has a row to edit.
func (s *Store) DeleteEntry(id, entryID string) error {
	return s.edit(id, func(d *Document) error {
		idx := envfile.IndexOf(d.Entries, entryID)
		if idx < 0 {
			return entryNotFound(entryID)
		}
		d.Entries = append(d.Entries[:idx], d.Entries[idx+1:]...)
		if len(d.Entries) == 0 {
			d.Entries = []envfile.Entry{envfile.NewVariable()}
		}
		return nil
	})
}

// SetEntry replaces the entry with the same id.
func (s *Store) SetEntry(id string, e envfile.Entry) error {
	return s.edit(id, func(d *Document) error {
		idx := envfile.IndexOf(d.Entries, e.ID)
		if idx < 0 {
			return entryNotFound(e.ID)
		}
		d.Entries[idx] = e
		return nil
	})
}

// ToggleEnabled flips a variable between enabled and commented out.
// Comments are left unchanged.
func (s *Store) ToggleEnabled(id, entryID string) error {
	return s.edit(id, func(d *Document) error {
		idx := envfile.IndexOf(d.Entries, entryID)
		if idx < 0 {
			return entryNotFound(entryID)
		}
		if d.Entries[idx].IsVariable() {
			d.Entries[idx].Enabled = !d.Entries[idx].Enabled
		}
		return nil
	})
}

// ToggleKind converts an entry between variable and comment.
func (s *Store) ToggleKind(id, entryID string) error {
	return s.edit(id, func(d *Document) error {
		idx := envfile.IndexOf(d.Entries, entryID)
		if idx < 0 {
			return entryNotFound(entryID)
		}
		d.Entries[idx] = envfile.ToggleKind(d.Entries[idx])
		return nil
	})
}

// ApplyRaw replaces a document's entries with edited raw text. Text that
// parses to nothing leaves one empty variable.
func (s *Store) ApplyRaw(id, text string) error {
	entries := envfile.Parse(text)
	if len(entries) == 0 {
		entries = []envfile.Entry{envfile.NewVariable()}
	}
	return s.edit(id, func(d *Document) error {
		d.Entries = entries
		return nil
	})
}
