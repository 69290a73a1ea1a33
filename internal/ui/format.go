package ui

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/quick"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

const (
	maskRune     = "•"
	maskMaxWidth = 8
	ellipsis     = "…"
)

// highlight colours content with chroma. ok is false when the terminal has
// no colour support or the lexer fails, in which case content is shown as is.
func highlight(content, lexer, style string, profile termenv.Profile) (string, bool) {
	formatter := formatterFor(profile)
	if formatter == "" || content == "" {
		return content, false
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, content, lexer, formatter, style); err != nil {
		return content, false
	}
	return strings.TrimRight(buf.String(), "\n"), true
}

func formatterFor(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal"
	default:
		return ""
	}
}

func maskValue(v string) string {
	if v == "" {
		return ""
	}
	return strings.Repeat(maskRune, min(max(runewidth.StringWidth(v), 1), maskMaxWidth))
}

// truncate cuts s, which may contain ANSI sequences, to width cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, ellipsis)
}

func padRight(s string, width int) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// fitPlain truncates text without escape sequences and pads it to width.
func fitPlain(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return runewidth.FillRight(s, width)
}

// singleLine keeps multi-line values on one table row.
func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	r := strings.NewReplacer("\r\n", "⏎", "\n", "⏎", "\r", "⏎", "\t", " ")
	return r.Replace(s)
}
