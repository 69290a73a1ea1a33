package bindings

import (
	"testing"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

func TestDefaultMapResolves(t *testing.T) {
	m := DefaultMap()
	cases := []struct {
		keys   []string
		want   ActionID
		status Status
	}{
		{[]string{"ctrl+s"}, ActionSaveFile, Matched},
		{[]string{"g"}, "", Pending},
		{[]string{"g", "S"}, ActionSaveAs, Matched},
		{[]string{"d"}, "", Pending},
		{[]string{"d", "d"}, ActionDeleteEntry, Matched},
		{[]string{" "}, ActionToggleEnabled, Matched},
		{[]string{"K"}, ActionReorderUp, Matched},
		{[]string{"shift+up"}, ActionReorderUp, Matched},
		{[]string{"z"}, "", NoMatch},
		{nil, "", NoMatch},
	}
	for _, tc := range cases {
		got, status := m.Resolve(tc.keys)
		if got != tc.want || status != tc.status {
			t.Fatalf("Resolve(%q) = %q, %v; want %q, %v", tc.keys, got, status, tc.want, tc.status)
		}
	}
}

func TestEveryActionHasDefaultsAndDescription(t *testing.T) {
	m := DefaultMap()
	for _, id := range KnownActions() {
		if len(m.KeysFor(id)) == 0 {
			t.Fatalf("action %s has no keys", id)
		}
		if Describe(id) == "" {
			t.Fatalf("action %s has no description", id)
		}
	}
	if got := m.KeysFor(ActionToggleEnabled); got[0] != "space" {
		t.Fatalf("KeysFor(toggle_enabled) = %v", got)
	}
}

func TestNewMapOverrides(t *testing.T) {
	m, err := NewMap(map[string][]string{
		"save_file":      {"Ctrl+W"},
		"close_document": {"ctrl+x"},
		"Toggle_Help":    nil,
	})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	if id, _ := m.Resolve([]string{"ctrl+w"}); id != ActionSaveFile {
		t.Fatalf("override not applied, got %q", id)
	}
	if _, status := m.Resolve([]string{"ctrl+s"}); status != NoMatch {
		t.Fatalf("override should replace the default keys")
	}
	if _, status := m.Resolve([]string{"?"}); status != NoMatch {
		t.Fatalf("empty override should unbind")
	}
	if b, ok := m.Binding(ActionMoveDown); !ok || !b.Repeatable {
		t.Fatalf("unexpected binding %+v", b)
	}
}

func TestNewMapRejectsBadOverrides(t *testing.T) {
	cases := map[string]map[string][]string{
		"unknown action": {"launch_rockets": {"x"}},
		"bad modifier":   {"save_file": {"hyper+s"}},
		"too long":       {"save_file": {"g g g"}},
		"duplicate":      {"save_file": {"ctrl+o"}},
		"prefix clash":   {"save_file": {"g"}},
	}
	for name, overrides := range cases {
		if _, err := NewMap(overrides); errdef.CodeOf(err) != errdef.CodeConfig {
			t.Fatalf("%s: expected config error, got %v", name, err)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"shift+a":       "A",
		"CTRL+S":        "ctrl+s",
		"Enter":         "enter",
		"space":         " ",
		"ctrl+shift+up": "ctrl+shift+up",
		"+":             "+",
		"#":             "#",
	}
	for in, want := range cases {
		got, err := normalizeKey(in)
		if err != nil || got != want {
			t.Fatalf("normalizeKey(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := normalizeKey("ctrl+"); err == nil {
		t.Fatalf("expected error for dangling modifier")
	}
}
