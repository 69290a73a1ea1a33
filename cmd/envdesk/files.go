package main

import (
	"context"

	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/filesvc"
	"github.com/unkn0wn-root/envdesk/internal/prefs"
)

// scratch is a document store for one-shot commands. Nothing is watched or
// remembered, and save prompts answer with savePath.
type scratch struct {
	fs    *filesvc.OS
	store *docstore.Store
}

func newScratch(savePath string) *scratch {
	fs := filesvc.NewOS(filesvc.OSOptions{})
	dialogs := filesvc.StaticDialogs{SavePath: savePath}
	return &scratch{
		fs:    fs,
		store: docstore.New(fs, dialogs, prefs.NewMemory(), docstore.Options{}),
	}
}

func (s *scratch) Close() error {
	return s.fs.Close()
}

// open loads path and returns its document.
func (s *scratch) open(ctx context.Context, path string) (docstore.Document, error) {
	id, err := s.store.Open(ctx, path)
	if err != nil {
		return docstore.Document{}, err
	}
	doc, _ := s.store.Document(id)
	return doc, nil
}

func withScratch(savePath string, fn func(*scratch) error) error {
	s := newScratch(savePath)
	defer s.Close()
	return fn(s)
}

