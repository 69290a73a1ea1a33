package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func TestMaskValue(t *testing.T) {
	cases := map[string]int{
		"":                     0,
		"a":                    1,
		"secret":               6,
		"a-much-longer-secret": maskMaxWidth,
	}
	for in, want := range cases {
		if got := ansi.StringWidth(maskValue(in)); got != want {
			t.Fatalf("maskValue(%q) width = %d, want %d", in, got, want)
		}
	}
}

func TestHighlightFollowsProfile(t *testing.T) {
	text := "# comment\nA=1"
	if got, ok := highlight(text, "bash", "monokai", termenv.Ascii); ok || got != text {
		t.Fatalf("ascii profile should leave text alone, got %q", got)
	}
	got, ok := highlight(text, "bash", "monokai", termenv.TrueColor)
	if !ok || !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected escape sequences, got %q", got)
	}
	if strings.TrimSpace(ansi.Strip(got)) != text {
		t.Fatalf("highlight changed the text: %q", ansi.Strip(got))
	}
}

func TestFormatterFor(t *testing.T) {
	cases := map[termenv.Profile]string{
		termenv.TrueColor: "terminal16m",
		termenv.ANSI256:   "terminal256",
		termenv.ANSI:      "terminal",
		termenv.Ascii:     "",
	}
	for p, want := range cases {
		if got := formatterFor(p); got != want {
			t.Fatalf("formatterFor(%v) = %q, want %q", p, got, want)
		}
	}
}

func TestTruncateAndPad(t *testing.T) {
	if got := truncate("abcdef", 4); ansi.StringWidth(got) != 4 || !strings.HasSuffix(got, ellipsis) {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("zero width should be empty, got %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := fitPlain("日本語テキスト", 6); ansi.StringWidth(got) != 6 {
		t.Fatalf("fitPlain width = %d", ansi.StringWidth(got))
	}
}

func TestSingleLine(t *testing.T) {
	if got := singleLine("a\nb\tc"); got != "a⏎b c" {
		t.Fatalf("singleLine = %q", got)
	}
	if got := singleLine("plain"); got != "plain" {
		t.Fatalf("singleLine = %q", got)
	}
}
