package settings

import (
	"testing"
	"time"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

func TestApplyAllRoutesToHandlers(t *testing.T) {
	var (
		backend  string
		mask     bool
		interval time.Duration
		binds    = map[string][]string{}
	)
	a := New(
		StringHandler("preferences.backend", &backend),
		BoolHandler("editor.mask_values", &mask),
		DurationHandler("watch.interval", &interval),
		ListHandler("bindings.", binds),
	)

	left, err := a.ApplyAll(map[string]string{
		"Preferences.Backend": "sqlite",
		"editor.mask_values":  "true",
		"watch.interval":      "500ms",
		"bindings.save_file":  "ctrl+s, g s",
		"unknown.key":         "x",
	})
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if backend != "sqlite" || !mask || interval != 500*time.Millisecond {
		t.Fatalf("unexpected values %q %v %v", backend, mask, interval)
	}
	if got := binds["save_file"]; len(got) != 2 || got[1] != "g s" {
		t.Fatalf("bindings = %v", binds)
	}
	if len(left) != 1 || left["unknown.key"] != "x" {
		t.Fatalf("left = %v", left)
	}
}

func TestApplyAllReportsBadValues(t *testing.T) {
	var mask bool
	_, err := New(BoolHandler("editor.mask_values", &mask)).ApplyAll(map[string]string{"editor.mask_values": "maybe"})
	if errdef.CodeOf(err) != errdef.CodeConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestParsePairs(t *testing.T) {
	got, err := ParsePairs([]string{"a=1", " b = two words ", "a=3", "empty="})
	if err != nil {
		t.Fatalf("ParsePairs: %v", err)
	}
	if got["a"] != "3" || got["b"] != "two words" || got["empty"] != "" {
		t.Fatalf("unexpected pairs %v", got)
	}
	if _, err := ParsePairs([]string{"novalue"}); err == nil {
		t.Fatalf("expected error for missing =")
	}
	if _, err := ParsePairs([]string{"=x"}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestMerge(t *testing.T) {
	got := Merge(map[string]string{"a": "1", "b": "1"}, map[string]string{"b": "2"})
	if got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("Merge = %v", got)
	}
}
