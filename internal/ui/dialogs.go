package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
)

type promptKind int

const (
	promptSave promptKind = iota
	promptOpen
)

type promptRequest struct {
	kind        promptKind
	title       string
	defaultPath string
	filters     []envfmt.Filter
	multiple    bool
	reply       chan docstore.DialogResult
}

func (r *promptRequest) answer(res docstore.DialogResult) {
	select {
	case r.reply <- res:
	default:
	}
}

// Dialogs implements docstore.Dialogs with prompts drawn by the running
// Model. A prompt call blocks until the user answers or ctx ends, so store
// operations that may prompt must run outside the UI goroutine.
type Dialogs struct {
	requests chan *promptRequest
}

var _ docstore.Dialogs = (*Dialogs)(nil)

func NewDialogs() *Dialogs {
	return &Dialogs{requests: make(chan *promptRequest)}
}

func (d *Dialogs) PromptSaveLocation(ctx context.Context, opts docstore.SaveOptions) (docstore.DialogResult, error) {
	return d.ask(ctx, &promptRequest{
		kind:        promptSave,
		title:       opts.Title,
		defaultPath: opts.DefaultPath,
		filters:     opts.Filters,
	})
}

func (d *Dialogs) PromptOpenLocation(ctx context.Context, opts docstore.OpenOptions) (docstore.DialogResult, error) {
	return d.ask(ctx, &promptRequest{
		kind:        promptOpen,
		title:       opts.Title,
		defaultPath: opts.DefaultPath,
		filters:     opts.Filters,
		multiple:    opts.AllowMultiple,
	})
}

func (d *Dialogs) ask(ctx context.Context, req *promptRequest) (docstore.DialogResult, error) {
	req.reply = make(chan docstore.DialogResult, 1)
	select {
	case d.requests <- req:
	case <-ctx.Done():
		return docstore.DialogResult{}, ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res, nil
	case <-ctx.Done():
		return docstore.DialogResult{}, ctx.Err()
	}
}

func (d *Dialogs) wait() tea.Cmd {
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		return promptRequestMsg{req: <-d.requests}
	}
}
