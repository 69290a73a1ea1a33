package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/envdesk/internal/bindings"
	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/envfile"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
)

func (m *Model) runAction(id bindings.ActionID) tea.Cmd {
	confirmed := m.confirm == string(id)
	m.confirm = ""
	if id != bindings.ActionToggleHelp {
		m.showHelp = false
	}

	switch id {
	case bindings.ActionToggleHelp:
		m.showHelp = !m.showHelp
		return nil
	case bindings.ActionQuitApp:
		return m.quit(confirmed)
	case bindings.ActionMoveUp:
		m.move(-1)
		return nil
	case bindings.ActionMoveDown:
		m.move(1)
		return nil
	case bindings.ActionNextDocument:
		m.cycleDocument(1)
		return nil
	case bindings.ActionPrevDocument:
		m.cycleDocument(-1)
		return nil
	case bindings.ActionCycleView:
		m.cycleView()
		return nil
	case bindings.ActionToggleMask:
		m.mask = !m.mask
		m.refreshViewport()
		if m.mask {
			m.setStatusMessage(statusMsg{text: "Values masked", level: statusInfo})
		} else {
			m.setStatusMessage(statusMsg{text: "Values visible", level: statusInfo})
		}
		return nil
	case bindings.ActionCopyView:
		m.copyView()
		return nil
	}

	if m.store == nil {
		return nil
	}
	switch id {
	case bindings.ActionNewDocument:
		m.store.NewDocument("")
		m.cursor = 0
		m.view = viewTable
		m.setStatusMessage(statusMsg{text: "New file", level: statusInfo})
		return m.startEdit(editKey)
	case bindings.ActionImport:
		return m.importFiles()
	case bindings.ActionPaste:
		m.paste()
		return nil
	}

	doc, ok := m.activeDoc()
	if !ok {
		m.setStatusMessage(statusMsg{
			text:  "No file open; " + m.hintFor(bindings.ActionNewDocument, "create one") + " or " + m.hintFor(bindings.ActionImport, "open one"),
			level: statusWarn,
		})
		return nil
	}

	switch id {
	case bindings.ActionToggleEnabled:
		if e, ok := m.selectedEntry(doc); ok {
			m.setError(m.store.ToggleEnabled(doc.ID, e.ID))
		}
	case bindings.ActionToggleKind:
		if e, ok := m.selectedEntry(doc); ok {
			m.setError(m.store.ToggleKind(doc.ID, e.ID))
		}
	case bindings.ActionDeleteEntry:
		if e, ok := m.selectedEntry(doc); ok {
			m.setError(m.store.DeleteEntry(doc.ID, e.ID))
			m.clampCursor()
		}
	case bindings.ActionReorderUp:
		m.reorder(doc, -1)
	case bindings.ActionReorderDown:
		m.reorder(doc, 1)
	case bindings.ActionEdit:
		if m.view == viewRaw {
			return m.startRawEdit(doc)
		}
		m.view = viewTable
		if e, ok := m.selectedEntry(doc); ok && e.IsComment() {
			return m.startEdit(editComment)
		}
		return m.startEdit(editValue)
	case bindings.ActionEditKey:
		m.view = viewTable
		if e, ok := m.selectedEntry(doc); ok && e.IsComment() {
			return m.startEdit(editComment)
		}
		return m.startEdit(editKey)
	case bindings.ActionAddEntry:
		return m.addEntry(doc, envfile.NewVariable(), editKey)
	case bindings.ActionAddComment:
		return m.addEntry(doc, envfile.NewComment(""), editComment)
	case bindings.ActionSaveFile:
		return m.save(doc)
	case bindings.ActionSaveAs:
		return m.saveAs(doc, envfmt.FormatEnv)
	case bindings.ActionExport:
		m.openPicker()
	case bindings.ActionReloadFromDisk:
		return m.reload(doc)
	case bindings.ActionCheckSync:
		return m.checkSync(doc)
	case bindings.ActionClone:
		return m.clone(doc)
	case bindings.ActionRename:
		return m.startEdit(editRename)
	case bindings.ActionCloseDocument:
		m.closeDocument(doc, confirmed)
	}
	m.refreshViewport()
	return nil
}

func (m *Model) selectedEntry(doc docstore.Document) (envfile.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(doc.Entries) {
		return envfile.Entry{}, false
	}
	return doc.Entries[m.cursor], true
}

func (m *Model) move(delta int) {
	if m.view != viewTable {
		m.viewport.SetYOffset(m.viewport.YOffset + delta)
		return
	}
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) cycleDocument(delta int) {
	docs := m.store.Documents()
	if len(docs) < 2 {
		return
	}
	idx := 0
	activeID := m.store.ActiveID()
	for i, d := range docs {
		if d.ID == activeID {
			idx = i
			break
		}
	}
	next := (idx + delta + len(docs)) % len(docs)
	m.store.SetActive(docs[next].ID)
	m.cursor = 0
	m.offset = 0
	m.clearDiff()
	m.refreshViewport()
}

func (m *Model) cycleView() {
	switch m.view {
	case viewTable:
		m.view = viewRaw
	case viewRaw:
		m.view = viewJSON
	default:
		m.view = viewTable
	}
	m.viewport.GotoTop()
	m.refreshViewport()
}

func (m *Model) reorder(doc docstore.Document, delta int) {
	to := m.cursor + delta
	if to < 0 || to >= len(doc.Entries) {
		return
	}
	m.store.Reorder(doc.ID, m.cursor, to)
	m.cursor = to
	m.clampCursor()
}

func (m *Model) addEntry(doc docstore.Document, e envfile.Entry, field editField) tea.Cmd {
	at := m.cursor + 1
	if len(doc.Entries) == 0 {
		at = 0
	}
	if _, err := m.store.AddEntry(doc.ID, at, e); err != nil {
		m.setError(err)
		return nil
	}
	m.view = viewTable
	m.cursor = min(at, len(doc.Entries))
	m.clampCursor()
	return m.startEdit(field)
}

func (m *Model) closeDocument(doc docstore.Document, confirmed bool) {
	if doc.Dirty && !confirmed {
		m.confirm = string(bindings.ActionCloseDocument)
		m.setStatusMessage(statusMsg{
			text:  fmt.Sprintf("%s has unsaved changes; press again to close", doc.Title()),
			level: statusWarn,
		})
		return
	}
	m.store.RemoveDocument(doc.ID)
	delete(m.changed, doc.ID)
	m.cursor = 0
	m.offset = 0
	m.setStatusMessage(statusMsg{text: "Closed " + doc.Title(), level: statusInfo})
}

func (m *Model) quit(confirmed bool) tea.Cmd {
	if m.store != nil && !confirmed {
		var dirty []string
		for _, d := range m.store.Documents() {
			if d.Dirty {
				dirty = append(dirty, d.Title())
			}
		}
		if len(dirty) > 0 {
			m.confirm = string(bindings.ActionQuitApp)
			m.setStatusMessage(statusMsg{
				text:  "Unsaved changes in " + strings.Join(dirty, ", ") + "; press again to quit",
				level: statusWarn,
			})
			return nil
		}
	}
	return tea.Quit
}

// paste adds env-looking clipboard text to the active document, creating one
// when nothing is open. Other text becomes the value of the selected variable.
func (m *Model) paste() {
	text, ok := m.readClipboard()
	if !ok {
		m.setStatusMessage(statusMsg{text: "Clipboard empty", level: statusWarn})
		return
	}
	doc, open := m.activeDoc()
	if envfile.LooksLikeEnv(text) {
		if !open {
			id := m.store.NewDocument("")
			doc, _ = m.store.Document(id)
		}
		n, err := m.store.PasteText(doc.ID, text)
		if err != nil {
			m.setError(err)
			return
		}
		m.setStatusMessage(statusMsg{text: fmt.Sprintf("Pasted %d %s", n, pluralize(n, "entry", "entries")), level: statusSuccess})
		m.refreshViewport()
		return
	}
	if !open {
		m.setStatusMessage(statusMsg{text: "Clipboard does not contain KEY=VALUE lines", level: statusWarn})
		return
	}
	e, ok := m.selectedEntry(doc)
	if !ok || !e.IsVariable() {
		m.setStatusMessage(statusMsg{text: "Select a variable to paste a value", level: statusWarn})
		return
	}
	e.Value = envfile.StripOuterQuotes(strings.TrimSpace(text))
	if err := m.store.SetEntry(doc.ID, e); err != nil {
		m.setError(err)
		return
	}
	m.setStatusMessage(statusMsg{text: "Pasted value into " + displayKey(e), level: statusSuccess})
	m.refreshViewport()
}

func (m *Model) copyView() {
	text, label := m.viewText()
	if label == "" {
		m.setStatusMessage(statusMsg{text: "Nothing to copy", level: statusWarn})
		return
	}
	m.setStatusMessage(m.writeClipboard(text, "Copied "+label))
}

// viewText renders what the current view shows, unmasked.
func (m *Model) viewText() (string, string) {
	if m.view == viewDiff {
		return m.diff, "diff"
	}
	doc, ok := m.activeDoc()
	if !ok {
		return "", ""
	}
	if m.view == viewJSON {
		text, err := envfmt.FullJSON(doc.Entries)
		if err != nil {
			m.log.Warn("json render failed", "err", err)
			return "", ""
		}
		return text, "JSON"
	}
	return envfmt.Env(doc.Entries), "env"
}

func displayKey(e envfile.Entry) string {
	if e.Key == "" {
		return "(no key)"
	}
	return e.Key
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
