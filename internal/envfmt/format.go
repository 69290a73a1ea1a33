// Package envfmt renders entry lists into the env, json, shell and full-json
// output formats and describes each format for save and export prompts.
package envfmt

import (
	"path/filepath"
	"strings"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

type Format string

const (
	FormatEnv      Format = "env"
	FormatJSON     Format = "json"
	FormatShell    Format = "shell"
	FormatFullJSON Format = "full-json"
)

// Filter names a group of file extensions offered by a file prompt. The
// extension "*" matches every file.
type Filter struct {
	Name       string
	Extensions []string
}

type descriptor struct {
	format    Format
	label     string
	extension string
	filter    Filter
}

var registry = []descriptor{
	{
		format:    FormatEnv,
		label:     "Environment file",
		extension: "env",
		filter:    Filter{Name: "Environment Files", Extensions: []string{"env"}},
	},
	{
		format:    FormatJSON,
		label:     "JSON object",
		extension: "json",
		filter:    Filter{Name: "JSON Files", Extensions: []string{"json"}},
	},
	{
		format:    FormatShell,
		label:     "Shell exports",
		extension: "sh",
		filter:    Filter{Name: "Shell Scripts", Extensions: []string{"sh"}},
	},
	{
		format:    FormatFullJSON,
		label:     "Full JSON backup",
		extension: "json",
		filter:    Filter{Name: "JSON Files", Extensions: []string{"json"}},
	},
}

var allFiles = Filter{Name: "All Files", Extensions: []string{"*"}}

// OpenFilters is the filter list offered when importing files.
func OpenFilters() []Filter {
	return []Filter{
		{Name: "Environment Files", Extensions: []string{"env", "local", "development", "production", "test", "staging"}},
		allFiles,
	}
}

// Formats lists every supported format in menu order.
func Formats() []Format {
	out := make([]Format, len(registry))
	for i, d := range registry {
		out[i] = d.format
	}
	return out
}

// ParseFormat accepts a format name case-insensitively. "sh" is accepted as
// an alias for shell and an empty name selects env.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "env", "dotenv":
		return FormatEnv, nil
	case "json":
		return FormatJSON, nil
	case "shell", "sh":
		return FormatShell, nil
	case "full-json", "fulljson", "full":
		return FormatFullJSON, nil
	}
	return "", errdef.New(errdef.CodeFormat, "unknown format %q", name)
}

func lookup(f Format) (descriptor, bool) {
	for _, d := range registry {
		if d.format == f {
			return d, true
		}
	}
	return descriptor{}, false
}

// Valid reports whether f is a registered format.
func (f Format) Valid() bool {
	_, ok := lookup(f)
	return ok
}

// Extension returns the canonical file extension without a leading dot.
// Unknown formats fall back to env.
func (f Format) Extension() string {
	if d, ok := lookup(f); ok {
		return d.extension
	}
	return "env"
}

func (f Format) Label() string {
	if d, ok := lookup(f); ok {
		return d.label
	}
	return string(f)
}

// Filters returns the save prompt filters for f followed by "All Files".
func (f Format) Filters() []Filter {
	d, ok := lookup(f)
	if !ok {
		d, _ = lookup(FormatEnv)
	}
	return []Filter{d.filter, allFiles}
}

// DefaultFileName proposes an export file name derived from the source
// document name, e.g. ".env.production" as json becomes
// ".env.production.json". env keeps the source name as is.
func (f Format) DefaultFileName(source string) string {
	base := filepath.Base(strings.TrimSpace(source))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = ".env"
	}
	if f == FormatEnv || !f.Valid() {
		return base
	}
	ext := "." + f.Extension()
	if strings.HasSuffix(strings.ToLower(base), ext) {
		return base
	}
	return base + ext
}

// Match reports whether name is accepted by any of the filters.
func Match(filters []Filter, name string) bool {
	if len(filters) == 0 {
		return true
	}
	base := strings.ToLower(filepath.Base(name))
	for _, flt := range filters {
		for _, ext := range flt.Extensions {
			ext = strings.ToLower(strings.TrimPrefix(ext, "."))
			if ext == "*" || strings.HasSuffix(base, "."+ext) {
				return true
			}
		}
	}
	return false
}
