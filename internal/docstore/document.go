package docstore

import (
	"github.com/unkn0wn-root/envdesk/internal/envfile"
)

// Document is one open environment file. Values returned by the store are
// copies; mutate through Store methods.
type Document struct {
	ID          string
	Path        string
	Name        string
	DisplayName string
	Entries     []envfile.Entry
	Dirty       bool
	// LastKnownDiskContent is the text last read from or written to Path.
	LastKnownDiskContent string
}

// Title is the name shown to the user.
func (d Document) Title() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	if d.Name != "" {
		return d.Name
	}
	return "untitled"
}

// HasPath reports whether the document is backed by a file.
func (d Document) HasPath() bool {
	return d.Path != ""
}

// Duplicates classifies the document's entries.
func (d Document) Duplicates() map[string]envfile.DuplicateStatus {
	return envfile.Classify(d.Entries)
}

// VariableCount counts variable entries, enabled or not.
func (d Document) VariableCount() int {
	n := 0
	for _, e := range d.Entries {
		if e.IsVariable() {
			n++
		}
	}
	return n
}

func (d *Document) copy() Document {
	out := *d
	out.Entries = envfile.Clone(d.Entries, false)
	return out
}
