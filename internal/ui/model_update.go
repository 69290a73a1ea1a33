package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/envdesk/internal/bindings"
	"github.com/unkn0wn-root/envdesk/internal/docstore"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.applyLayout()
		return m, nil
	case storeEventMsg:
		m.handleStoreEvent(msg.evt)
		return m, waitForEvent(m.events)
	case promptRequestMsg:
		if msg.req == nil {
			return m, m.dialogs.wait()
		}
		cmd := m.openPrompt(msg.req)
		return m, tea.Batch(cmd, m.dialogs.wait())
	case opDoneMsg:
		m.handleOpDone(msg)
		return m, nil
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd
	}
	return m, m.updateInputs(msg)
}

// updateInputs forwards non-key messages such as cursor blinks to whichever
// input currently has focus.
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.prompt != nil:
		m.prompt.input, cmd = m.prompt.input.Update(msg)
	case m.edit != nil:
		m.edit.input, cmd = m.edit.input.Update(msg)
	case m.raw != nil:
		m.raw.area, cmd = m.raw.area.Update(msg)
	}
	return cmd
}

func (m *Model) handleStoreEvent(evt docstore.Event) {
	switch evt.Kind {
	case docstore.EventExternalChange:
		if m.changed[evt.DocID] {
			return
		}
		m.changed[evt.DocID] = true
		title := "file"
		if doc, ok := m.store.Document(evt.DocID); ok {
			title = doc.Title()
		}
		m.setStatusMessage(statusMsg{
			text:  title + " changed on disk; " + m.hintFor(bindings.ActionReloadFromDisk, "reload") + " or " + m.hintFor(bindings.ActionCheckSync, "compare"),
			level: statusWarn,
		})
	case docstore.EventSaved, docstore.EventReloaded:
		delete(m.changed, evt.DocID)
	case docstore.EventRemoved:
		delete(m.changed, evt.DocID)
		if m.diffDoc == evt.DocID {
			m.clearDiff()
		}
		m.clampCursor()
	case docstore.EventActiveChanged:
		m.cursor = 0
		m.offset = 0
		m.clearDiff()
	case docstore.EventUpdated:
		m.clampCursor()
	}
	m.refreshViewport()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case m.prompt != nil:
		return m.handlePromptKey(msg)
	case m.picker != nil:
		return m.handlePickerKey(msg)
	case m.edit != nil:
		return m.handleEditKey(msg)
	case m.raw != nil:
		return m.handleRawKey(msg)
	}

	key := msg.String()
	if key == "esc" {
		m.pending = nil
		m.confirm = ""
		m.showHelp = false
		if m.view == viewDiff {
			m.clearDiff()
		}
		return nil
	}
	return m.handleKeyWithChord(key)
}

// handleKeyWithChord accumulates keys until they name an action. A key that
// breaks a pending chord is retried on its own.
func (m *Model) handleKeyWithChord(key string) tea.Cmd {
	seq := append(append([]string(nil), m.pending...), key)
	id, status := m.keys.Resolve(seq)
	if status == bindings.NoMatch && len(m.pending) > 0 {
		seq = []string{key}
		id, status = m.keys.Resolve(seq)
	}
	switch status {
	case bindings.Pending:
		m.pending = seq
		return nil
	case bindings.Matched:
		m.pending = nil
		return m.runAction(id)
	}
	m.pending = nil
	return nil
}

func (m *Model) hintFor(id bindings.ActionID, label string) string {
	keys := m.keys.KeysFor(id)
	if len(keys) == 0 {
		return label
	}
	return keys[0] + " to " + label
}
