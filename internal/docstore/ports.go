package docstore

import (
	"context"

	"github.com/unkn0wn-root/envdesk/internal/envfmt"
)

// WatchHandle identifies one Watch subscription.
type WatchHandle string

// FileSystem is the disk access the store needs.
type FileSystem interface {
	ReadTextFile(ctx context.Context, path string) (string, error)
	WriteTextFile(ctx context.Context, path, text string) error
	FileExists(path string) bool
	SplitPath(path string) (base, dir string)
	// Watch calls onChange from another goroutine when path changes on disk
	// outside of WriteTextFile.
	Watch(path string, onChange func(path string)) (WatchHandle, error)
	Unwatch(h WatchHandle) error
}

type SaveOptions struct {
	Title       string
	DefaultPath string
	Filters     []envfmt.Filter
}

type OpenOptions struct {
	Title         string
	DefaultPath   string
	Filters       []envfmt.Filter
	AllowMultiple bool
}

// DialogResult is the user's answer to a location prompt. Paths holds one
// path for save prompts.
type DialogResult struct {
	Cancelled bool
	Paths     []string
}

// Path returns the first chosen path or "".
func (r DialogResult) Path() string {
	if len(r.Paths) == 0 {
		return ""
	}
	return r.Paths[0]
}

// Dialogs asks the user where to save or what to open. Implementations may
// block until the user answers.
type Dialogs interface {
	PromptSaveLocation(ctx context.Context, opts SaveOptions) (DialogResult, error)
	PromptOpenLocation(ctx context.Context, opts OpenOptions) (DialogResult, error)
}
