package envfile

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

// Parse converts raw environment file text into entries in source order.
//
// Leading and trailing blank lines are dropped while interior blank lines
// become empty comments. Lines that are neither comments nor assignments,
// and assignments with an empty key, are skipped.
func Parse(raw string) []Entry {
	lines := trimBlankEdges(strings.Split(raw, "\n"))
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if entry, ok := parseLine(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// ParseReader reads r to the end and parses its contents.
func ParseReader(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeFilesystem, err, "read env source")
	}
	return Parse(string(data)), nil
}

// ParseFile reads and parses the file at path, returning the entries along
// with the absolute path of the file.
func ParseFile(path string) ([]Entry, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, abs, errdef.Wrap(errdef.CodeFilesystem, err, "open %s", abs)
	}
	defer f.Close()

	entries, err := ParseReader(f)
	if err != nil {
		return nil, abs, err
	}
	return entries, abs, nil
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)-1
	for start <= end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	return lines[start : end+1]
}

func parseLine(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return NewComment(""), true
	}

	if strings.HasPrefix(trimmed, "#") {
		afterHash := strings.TrimSpace(trimmed[1:])
		if eq := strings.Index(afterHash, "="); eq > 0 {
			key := strings.TrimSpace(afterHash[:eq])
			if IsIdentifier(key) {
				return Entry{
					ID:      NewID(),
					Kind:    KindVariable,
					Key:     key,
					Value:   StripOuterQuotes(strings.TrimSpace(afterHash[eq+1:])),
					Enabled: false,
				}, true
			}
		}
		return NewComment(afterHash), true
	}

	eq := strings.Index(trimmed, "=")
	if eq < 0 {
		return Entry{}, false
	}
	key := strings.TrimSpace(trimmed[:eq])
	if key == "" {
		return Entry{}, false
	}
	return Entry{
		ID:      NewID(),
		Kind:    KindVariable,
		Key:     key,
		Value:   StripOuterQuotes(strings.TrimSpace(trimmed[eq+1:])),
		Enabled: true,
	}, true
}

// StripOuterQuotes removes one layer of matching double or single quotes.
// Embedded quotes and escapes are left untouched.
func StripOuterQuotes(s string) string {
	if s == "" {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '"' || first == '\'') && first == last {
		if len(s) == 1 {
			return ""
		}
		return s[1 : len(s)-1]
	}
	return s
}

// LooksLikeEnv reports whether text resembles environment file content: at
// least one non-blank line is a comment or an identifier assignment.
func LooksLikeEnv(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			return true
		}
		eq := strings.Index(trimmed, "=")
		if eq <= 0 {
			continue
		}
		if IsIdentifier(strings.TrimSpace(trimmed[:eq])) {
			return true
		}
	}
	return false
}
