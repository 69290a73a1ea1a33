package filesvc

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileEntry struct {
	Name string
	Path string
}

// IsEnvFileName reports whether name looks like an environment file:
// ".env", ".env.<stage>", "<name>.env" or "env.<stage>".
func IsEnvFileName(name string) bool {
	lower := strings.ToLower(filepath.Base(name))
	switch {
	case lower == ".env", lower == "env":
		return true
	case strings.HasPrefix(lower, ".env."), strings.HasPrefix(lower, "env."):
		return !strings.HasSuffix(lower, ".swp") && !strings.HasSuffix(lower, "~")
	case strings.HasSuffix(lower, ".env"):
		return true
	}
	return false
}

// ListEnvFiles returns environment files under root, optionally recursing
// into subdirectories while skipping hidden folders and node_modules.
func ListEnvFiles(root string, recursive bool) ([]FileEntry, error) {
	var entries []FileEntry
	appendEntry := func(name, path string) {
		entries = append(entries, FileEntry{Name: name, Path: path})
	}

	if recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
					return filepath.SkipDir
				}
				return nil
			}

			if !IsEnvFileName(d.Name()) {
				return nil
			}

			rel := d.Name()
			if r, relErr := filepath.Rel(root, path); relErr == nil {
				rel = r
			}

			appendEntry(rel, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		dirEntries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}

		for _, entry := range dirEntries {
			if entry.IsDir() || !IsEnvFileName(entry.Name()) {
				continue
			}
			appendEntry(entry.Name(), filepath.Join(root, entry.Name()))
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}
