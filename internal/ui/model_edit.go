package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/envfile"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
)

type editField int

const (
	editValue editField = iota
	editKey
	editComment
	editRename
)

// fieldEdit is an inline edit of one entry field, or of the document name.
type fieldEdit struct {
	docID   string
	entryID string
	field   editField
	input   textinput.Model
}

type rawEdit struct {
	docID string
	area  textarea.Model
}

func (m *Model) startEdit(field editField) tea.Cmd {
	doc, ok := m.activeDoc()
	if !ok {
		return nil
	}
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 0

	edit := &fieldEdit{docID: doc.ID, field: field}
	switch field {
	case editRename:
		input.Placeholder = doc.Name
		input.SetValue(doc.DisplayName)
	default:
		e, ok := m.selectedEntry(doc)
		if !ok {
			return nil
		}
		edit.entryID = e.ID
		switch {
		case field == editValue && e.IsVariable():
			input.Placeholder = "value"
			input.SetValue(e.Value)
		case field == editKey && e.IsVariable():
			input.Placeholder = "KEY"
			input.SetValue(e.Key)
		default:
			edit.field = editComment
			input.Placeholder = "comment"
			input.SetValue(e.Key)
		}
	}
	input.CursorEnd()
	edit.input = input
	m.edit = edit
	return m.edit.input.Focus()
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.edit = nil
		return nil
	case "enter":
		return m.commitEdit()
	}
	var cmd tea.Cmd
	m.edit.input, cmd = m.edit.input.Update(msg)
	return cmd
}

func (m *Model) commitEdit() tea.Cmd {
	edit := m.edit
	m.edit = nil
	value := edit.input.Value()

	if edit.field == editRename {
		m.store.Rename(edit.docID, value)
		if doc, ok := m.store.Document(edit.docID); ok {
			m.setStatusMessage(statusMsg{text: "Renamed to " + doc.Title(), level: statusSuccess})
		}
		return nil
	}

	doc, ok := m.store.Document(edit.docID)
	if !ok {
		return nil
	}
	idx := envfile.IndexOf(doc.Entries, edit.entryID)
	if idx < 0 {
		m.setStatusMessage(statusMsg{text: "Row no longer exists", level: statusWarn})
		return nil
	}
	e := doc.Entries[idx]
	switch edit.field {
	case editValue:
		e.Value = value
	case editKey:
		e.Key = strings.TrimSpace(value)
	case editComment:
		e.Key = value
	}
	if err := m.store.SetEntry(doc.ID, e); err != nil {
		m.setError(err)
		return nil
	}
	m.refreshViewport()

	if edit.field == editKey {
		if e.Key != "" && !envfile.IsIdentifier(e.Key) {
			m.setStatusMessage(statusMsg{text: e.Key + " is not a valid variable name", level: statusWarn})
		}
		if e.Value == "" && m.store.ActiveID() == doc.ID {
			m.cursor = idx
			return m.startEdit(editValue)
		}
	}
	return nil
}

func (m *Model) startRawEdit(doc docstore.Document) tea.Cmd {
	area := textarea.New()
	area.CharLimit = 0
	area.MaxHeight = 0
	area.ShowLineNumbers = true
	area.SetWidth(max(m.mainWidth(), 20))
	area.SetHeight(max(m.bodyHeight()-1, 3))
	area.SetValue(envfmt.Env(doc.Entries))
	m.raw = &rawEdit{docID: doc.ID, area: area}
	return m.raw.area.Focus()
}

// handleRawKey edits the raw text. ctrl+s applies it to the document, esc
// discards it.
func (m *Model) handleRawKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.raw = nil
		m.setStatusMessage(statusMsg{text: "Raw edit discarded", level: statusInfo})
		return nil
	case "ctrl+s":
		raw := m.raw
		m.raw = nil
		if err := m.store.ApplyRaw(raw.docID, raw.area.Value()); err != nil {
			m.setError(err)
			return nil
		}
		m.clampCursor()
		m.refreshViewport()
		m.setStatusMessage(statusMsg{text: "Raw text applied", level: statusSuccess})
		return nil
	}
	var cmd tea.Cmd
	m.raw.area, cmd = m.raw.area.Update(msg)
	return cmd
}
