// Package envfile models the contents of environment files as an ordered
// list of entries and converts raw text into that list.
//
// Every logical line is an Entry. A variable line carries a key and a value;
// a commented-out assignment such as "#PORT=8080" is kept as a disabled
// variable rather than a comment so it can be switched back on. Comment
// entries hold their text in Key, and a blank line is a comment with no text.
package envfile

import (
	"strings"

	"github.com/google/uuid"
)

type Kind string

const (
	KindVariable Kind = "variable"
	KindComment  Kind = "comment"
)

type Entry struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"type"`
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// NewID returns a fresh entry identifier.
func NewID() string {
	return uuid.NewString()
}

// NewVariable returns an empty, enabled variable entry.
func NewVariable() Entry {
	return Entry{ID: NewID(), Kind: KindVariable, Enabled: true}
}

// NewComment returns a comment entry holding text. Empty text renders as a
// blank line.
func NewComment(text string) Entry {
	return Entry{ID: NewID(), Kind: KindComment, Key: text, Enabled: true}
}

func (e Entry) IsVariable() bool { return e.Kind == KindVariable }

func (e Entry) IsComment() bool { return e.Kind == KindComment }

// IsBlank reports whether the entry renders as an empty line.
func (e Entry) IsBlank() bool {
	return e.Kind == KindComment && e.Key == ""
}

// IsPlaceholder reports whether the entry is an untouched empty variable,
// the row an editor shows for an otherwise empty document.
func (e Entry) IsPlaceholder() bool {
	return e.Kind == KindVariable && strings.TrimSpace(e.Key) == "" && strings.TrimSpace(e.Value) == ""
}

// ToggleKind converts a comment into a variable or a variable into a comment.
// The conversion is lossy: comment text becomes the variable value (the key
// is left for the user to type), and a variable collapses to "KEY=VALUE".
func ToggleKind(e Entry) Entry {
	if e.Kind == KindComment {
		return Entry{ID: e.ID, Kind: KindVariable, Key: "", Value: e.Key, Enabled: true}
	}

	var text string
	switch {
	case e.Key != "" && e.Value != "":
		text = e.Key + "=" + e.Value
	case e.Key != "":
		text = e.Key
	default:
		text = e.Value
	}
	return Entry{ID: e.ID, Kind: KindComment, Key: text, Enabled: true}
}

// Clone copies entries, optionally assigning new ids.
func Clone(entries []Entry, freshIDs bool) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	if freshIDs {
		for i := range out {
			out[i].ID = NewID()
		}
	}
	return out
}

// Move returns a copy of entries with the element at from relocated to to.
// Out of range indexes and from == to return an unchanged copy.
func Move(entries []Entry, from, to int) []Entry {
	out := Clone(entries, false)
	if from == to || from < 0 || to < 0 || from >= len(out) || to >= len(out) {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]Entry{item}, out[to:]...)...)
	return out
}

// IndexOf returns the position of the entry with id or -1.
func IndexOf(entries []Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Equivalent compares two lists by kind, key, value and enabled state,
// ignoring ids.
func Equivalent(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Key != b[i].Key || a[i].Value != b[i].Value || a[i].Enabled != b[i].Enabled {
			return false
		}
	}
	return true
}

// IsIdentifier reports whether s has the shape [A-Za-z_][A-Za-z0-9_]*.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
