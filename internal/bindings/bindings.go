// Package bindings maps key sequences typed in the terminal UI to editor
// actions. Sequences are one or two keys ("ctrl+s", "g x"); user settings
// can replace the keys of any action.
package bindings

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

type ActionID string

const maxSteps = 2

// Status is the outcome of resolving a partial key sequence.
type Status int

const (
	NoMatch Status = iota
	// Pending means the keys so far start a longer sequence.
	Pending
	Matched
)

type Binding struct {
	Action     ActionID
	Keys       [][]string
	Repeatable bool
}

type Map struct {
	exact    map[string]ActionID
	prefixes map[string]bool
	byAction map[ActionID]Binding
}

// KnownActions lists every action id in display order.
func KnownActions() []ActionID {
	out := make([]ActionID, len(definitions))
	for i, d := range definitions {
		out[i] = d.id
	}
	return out
}

// Describe returns the short help text of an action.
func Describe(id ActionID) string {
	return definitionLookup[id].description
}

func DefaultMap() *Map {
	m, err := NewMap(nil)
	if err != nil {
		panic(fmt.Sprintf("default bindings conflict: %v", err))
	}
	return m
}

// NewMap builds the defaults with overrides applied. An override replaces
// all keys of its action; an empty list unbinds it. Unknown actions,
// malformed keys and conflicting sequences are errors.
func NewMap(overrides map[string][]string) (*Map, error) {
	byAction := make(map[ActionID]Binding, len(definitions))
	for _, d := range definitions {
		byAction[d.id] = Binding{Action: d.id, Keys: d.defaults, Repeatable: d.repeatable}
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id := ActionID(strings.ToLower(strings.TrimSpace(name)))
		b, ok := byAction[id]
		if !ok {
			return nil, errdef.New(errdef.CodeConfig, "unknown action %q", name)
		}
		b.Keys = nil
		for _, spec := range overrides[name] {
			seq, err := parseSequence(spec)
			if err != nil {
				return nil, errdef.Wrap(errdef.CodeConfig, err, "binding %s", name)
			}
			b.Keys = append(b.Keys, seq)
		}
		byAction[id] = b
	}

	m := &Map{
		exact:    make(map[string]ActionID),
		prefixes: make(map[string]bool),
		byAction: byAction,
	}
	for _, d := range definitions {
		for _, seq := range byAction[d.id].Keys {
			key := strings.Join(seq, " ")
			if other, dup := m.exact[key]; dup {
				return nil, errdef.New(errdef.CodeConfig, "%q is bound to both %s and %s", key, other, d.id)
			}
			m.exact[key] = d.id
			for i := 1; i < len(seq); i++ {
				m.prefixes[strings.Join(seq[:i], " ")] = true
			}
		}
	}
	for prefix := range m.prefixes {
		if id, clash := m.exact[prefix]; clash {
			return nil, errdef.New(errdef.CodeConfig, "%q is bound to %s and also starts a longer sequence", prefix, id)
		}
	}
	return m, nil
}

// Resolve looks up the keys typed so far.
func (m *Map) Resolve(keys []string) (ActionID, Status) {
	if len(keys) == 0 {
		return "", NoMatch
	}
	joined := strings.Join(keys, " ")
	if id, ok := m.exact[joined]; ok {
		return id, Matched
	}
	if m.prefixes[joined] {
		return "", Pending
	}
	return "", NoMatch
}

// Binding returns the effective binding for id.
func (m *Map) Binding(id ActionID) (Binding, bool) {
	b, ok := m.byAction[id]
	return b, ok
}

// KeysFor formats the sequences bound to id for display, e.g. "ctrl+s".
func (m *Map) KeysFor(id ActionID) []string {
	b := m.byAction[id]
	out := make([]string, 0, len(b.Keys))
	for _, seq := range b.Keys {
		parts := make([]string, len(seq))
		for i, k := range seq {
			parts[i] = displayKey(k)
		}
		out = append(out, strings.Join(parts, " "))
	}
	return out
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

var errEmptyKey = errors.New("empty key")

// parseSequence splits a whitespace separated spec into normalised keys.
func parseSequence(spec string) ([]string, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, errEmptyKey
	}
	if len(fields) > maxSteps {
		return nil, fmt.Errorf("at most %d keys per sequence", maxSteps)
	}
	seq := make([]string, len(fields))
	for i, f := range fields {
		k, err := normalizeKey(f)
		if err != nil {
			return nil, err
		}
		seq[i] = k
	}
	return seq, nil
}

// normalizeKey produces the form bubbletea reports for a key press.
// Modifiers are lower cased, "shift+x" becomes "X" and "space" becomes " ".
func normalizeKey(k string) (string, error) {
	if k == "+" {
		return k, nil
	}
	parts := strings.Split(k, "+")
	base := parts[len(parts)-1]
	if base == "" {
		return "", errEmptyKey
	}
	shift := false
	var kept []string
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "ctrl", "alt":
			kept = append(kept, strings.ToLower(mod))
		case "shift":
			shift = true
		default:
			return "", fmt.Errorf("unknown modifier %q", mod)
		}
	}

	single := len([]rune(base)) == 1
	switch {
	case !single:
		base = strings.ToLower(base)
		if base == "space" {
			base = " "
		}
		if shift {
			kept = append(kept, "shift")
		}
	case shift:
		base = strings.ToUpper(base)
	case len(kept) > 0:
		base = strings.ToLower(base)
	}
	if len(kept) == 0 {
		return base, nil
	}
	return strings.Join(kept, "+") + "+" + base, nil
}
