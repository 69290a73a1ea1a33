package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/envdesk/internal/bindings"
	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
)

// runOp runs a store operation off the UI goroutine. Operations that prompt
// block on Dialogs until the prompt is answered, so only one runs at a time.
func (m *Model) runOp(name, docID string, fn func(ctx context.Context) opDoneMsg) tea.Cmd {
	if m.busy != "" {
		m.setStatusMessage(statusMsg{text: "Busy: " + m.busy, level: statusWarn})
		return nil
	}
	m.busy = name
	ctx := m.ctx
	return func() tea.Msg {
		msg := fn(ctx)
		msg.op = name
		msg.docID = docID
		return msg
	}
}

func (m *Model) handleOpDone(msg opDoneMsg) {
	m.busy = ""
	if msg.err != nil {
		m.log.Debug("operation failed", "op", msg.op, "err", msg.err)
		m.setError(msg.err)
		return
	}
	if msg.sync != nil {
		m.showSync(msg.docID, *msg.sync)
	}
	if msg.status.text != "" {
		m.setStatusMessage(msg.status)
	}
	m.clampCursor()
	m.refreshViewport()
}

func (m *Model) save(doc docstore.Document) tea.Cmd {
	if !doc.HasPath() {
		return m.saveAs(doc, envfmt.FormatEnv)
	}
	store := m.store
	return m.runOp("save", doc.ID, func(ctx context.Context) opDoneMsg {
		if err := store.Save(ctx, doc.ID); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{status: statusMsg{text: "Saved " + doc.Path, level: statusSuccess}}
	})
}

func (m *Model) saveAs(doc docstore.Document, format envfmt.Format) tea.Cmd {
	store := m.store
	name := "save as"
	if format != envfmt.FormatEnv {
		name = "export"
	}
	return m.runOp(name, doc.ID, func(ctx context.Context) opDoneMsg {
		if err := store.SaveAs(ctx, doc.ID, format); err != nil {
			return opDoneMsg{err: err}
		}
		text := "Exported " + format.Label()
		if format == envfmt.FormatEnv {
			text = "Saved"
			if saved, ok := store.Document(doc.ID); ok {
				text = "Saved " + saved.Path
			}
		}
		return opDoneMsg{status: statusMsg{text: text, level: statusSuccess}}
	})
}

func (m *Model) reload(doc docstore.Document) tea.Cmd {
	if !doc.HasPath() {
		m.setStatusMessage(statusMsg{text: doc.Title() + " has no file to reload", level: statusWarn})
		return nil
	}
	store := m.store
	return m.runOp("reload", doc.ID, func(ctx context.Context) opDoneMsg {
		if err := store.Reload(ctx, doc.ID); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{status: statusMsg{text: "Reloaded " + doc.Title(), level: statusSuccess}}
	})
}

func (m *Model) checkSync(doc docstore.Document) tea.Cmd {
	if !doc.HasPath() {
		m.setStatusMessage(statusMsg{text: doc.Title() + " has no file to compare", level: statusWarn})
		return nil
	}
	store := m.store
	return m.runOp("compare", doc.ID, func(ctx context.Context) opDoneMsg {
		res, err := store.CheckSync(ctx, doc.ID)
		if err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{sync: &res}
	})
}

func (m *Model) clone(doc docstore.Document) tea.Cmd {
	store := m.store
	return m.runOp("clone", doc.ID, func(ctx context.Context) opDoneMsg {
		id, err := store.Clone(ctx, doc.ID)
		if err != nil {
			return opDoneMsg{err: err}
		}
		text := "Cloned " + doc.Title()
		if cloned, ok := store.Document(id); ok {
			text += " to " + cloned.Path
		}
		return opDoneMsg{status: statusMsg{text: text, level: statusSuccess}}
	})
}

func (m *Model) importFiles() tea.Cmd {
	store := m.store
	return m.runOp("open", "", func(ctx context.Context) opDoneMsg {
		report, err := store.Import(ctx)
		if err != nil {
			return opDoneMsg{err: err}
		}
		level := statusSuccess
		switch {
		case len(report.Failed) > 0:
			level = statusWarn
		case len(report.Added) == 0:
			level = statusInfo
		}
		return opDoneMsg{status: statusMsg{text: report.Summary(), level: level}}
	})
}

func (m *Model) showSync(docID string, res docstore.SyncResult) {
	if !res.Changed {
		delete(m.changed, docID)
		m.setStatusMessage(statusMsg{text: "In sync with disk", level: statusSuccess})
		return
	}
	m.diff = res.Diff
	m.diffDoc = docID
	m.view = viewDiff
	m.viewport.GotoTop()
	m.setStatusMessage(statusMsg{
		text:  fmt.Sprintf("File differs from disk; %s", m.hintFor(bindings.ActionReloadFromDisk, "reload")),
		level: statusWarn,
	})
}

func (m *Model) clearDiff() {
	m.diff = ""
	m.diffDoc = ""
	if m.view == viewDiff {
		m.view = viewTable
	}
}
