package filesvc

import (
	"context"
	"path/filepath"

	"github.com/unkn0wn-root/envdesk/internal/docstore"
)

// StaticDialogs answers location prompts with fixed paths, for commands that
// already know where to read and write. An empty answer counts as
// cancelled.
type StaticDialogs struct {
	SavePath  string
	OpenPaths []string
}

var _ docstore.Dialogs = StaticDialogs{}

func (d StaticDialogs) PromptSaveLocation(ctx context.Context, _ docstore.SaveOptions) (docstore.DialogResult, error) {
	if err := ctx.Err(); err != nil {
		return docstore.DialogResult{}, err
	}
	if d.SavePath == "" {
		return docstore.DialogResult{Cancelled: true}, nil
	}
	return docstore.DialogResult{Paths: []string{absPath(d.SavePath)}}, nil
}

func (d StaticDialogs) PromptOpenLocation(ctx context.Context, opts docstore.OpenOptions) (docstore.DialogResult, error) {
	if err := ctx.Err(); err != nil {
		return docstore.DialogResult{}, err
	}
	if len(d.OpenPaths) == 0 {
		return docstore.DialogResult{Cancelled: true}, nil
	}
	paths := make([]string, 0, len(d.OpenPaths))
	for _, p := range d.OpenPaths {
		paths = append(paths, absPath(p))
	}
	if !opts.AllowMultiple {
		paths = paths[:1]
	}
	return docstore.DialogResult{Paths: paths}, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
