package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/unkn0wn-root/envdesk/internal/bindings"
	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/envfile"
	"github.com/unkn0wn-root/envdesk/internal/ui/scroll"
)

const (
	activeMarker  = "▸ "
	enabledMark   = "● "
	disabledMark  = "○ "
	minKeyColumn  = 3
	statusDivider = " │ "
)

func (m Model) View() string {
	if !m.ready {
		return ""
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderMain())
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderStatus())
}

func (m Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render("envdesk")
	doc, ok := m.activeDoc()
	if !ok {
		return truncate(brand+m.theme.Header.Render("no file open"), m.width)
	}
	parts := []string{m.theme.HeaderValue.Render(doc.Title())}
	if doc.HasPath() {
		parts = append(parts, m.displayPath(doc.Path))
	} else {
		parts = append(parts, "unsaved")
	}
	parts = append(parts, fmt.Sprintf("%d %s", doc.VariableCount(), pluralize(doc.VariableCount(), "variable", "variables")))
	if n := len(envfile.DuplicateGroups(doc.Entries)); n > 0 {
		parts = append(parts, m.theme.Warning.Render(fmt.Sprintf("%d duplicate %s", n, pluralize(n, "key", "keys"))))
	}
	if doc.Dirty {
		parts = append(parts, m.theme.SidebarDirty.Render("modified"))
	}
	if m.changed[doc.ID] {
		parts = append(parts, m.theme.Warning.Render("changed on disk"))
	}
	return truncate(brand+m.theme.Header.Render(strings.Join(parts, " · ")), m.width)
}

func (m Model) renderSidebar() string {
	w := m.sidebarWidth()
	h := m.bodyHeight()
	lines := []string{m.theme.PaneTitle.Render("Files")}
	var docs []docstore.Document
	activeID := ""
	if m.store != nil {
		docs = m.store.Documents()
		activeID = m.store.ActiveID()
	}
	if len(docs) == 0 {
		lines = append(lines, m.theme.SidebarItem.Render("no files"))
	}
	for _, d := range docs {
		flags := ""
		if d.Dirty {
			flags += "*"
		}
		if m.changed[d.ID] {
			flags += "!"
		}
		prefix := "  "
		style := m.theme.SidebarItem
		if d.ID == activeID {
			prefix = activeMarker
			style = m.theme.SidebarActive
		}
		nameW := max(w-runewidth.StringWidth(prefix)-len(flags)-1, 1)
		line := prefix + style.Render(fitPlain(d.Title(), nameW))
		if flags != "" {
			line += " " + m.theme.SidebarDirty.Render(flags)
		}
		lines = append(lines, line)
	}
	if len(lines) > h {
		lines = lines[:h]
	}
	return m.theme.SidebarBorder.Width(w).Height(h).Render(strings.Join(lines, "\n"))
}

func (m Model) renderMain() string {
	w := m.mainWidth()
	h := m.contentHeight()
	var content string
	doc, ok := m.activeDoc()
	switch {
	case m.showHelp:
		content = m.renderHelp(w, h)
	case m.raw != nil:
		content = m.raw.area.View()
	case !ok:
		content = m.theme.RowComment.Render(
			m.hintFor(bindings.ActionNewDocument, "create a file") + ", " +
				m.hintFor(bindings.ActionImport, "open one") + " or " +
				m.hintFor(bindings.ActionPaste, "paste KEY=VALUE lines"))
	case m.view == viewTable:
		content = m.renderTable(doc, w, h)
	default:
		content = m.viewport.View()
	}
	content = clipLines(content, h, w)
	return m.theme.PaneBorder.Width(w).Height(h + 1).Render(m.renderTabs(w) + "\n" + content)
}

func (m Model) renderTabs(width int) string {
	titles := viewTitles
	active := int(m.view)
	if m.view == viewDiff {
		titles = append(append([]string(nil), viewTitles...), "Diff")
	}
	if m.raw != nil {
		titles = []string{"Raw (editing: ctrl+s apply, esc discard)"}
		active = 0
	}
	tabs := make([]string, len(titles))
	for i, t := range titles {
		if i == active {
			tabs[i] = m.theme.TabActive.Render(t)
		} else {
			tabs[i] = m.theme.TabInactive.Render(t)
		}
	}
	return truncate(m.theme.Tabs.Render(strings.Join(tabs, "")), width)
}

func (m Model) renderTable(doc docstore.Document, width, height int) string {
	if len(doc.Entries) == 0 {
		return m.theme.RowComment.Render("empty; " + m.hintFor(bindings.ActionAddEntry, "add a variable"))
	}
	dups := doc.Duplicates()
	keyW := keyColumnWidth(doc.Entries, width)
	start, end := scroll.Window(m.cursor, m.offset, height, len(doc.Entries))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		e := doc.Entries[i]
		lines = append(lines, m.renderRow(e, dups[e.ID], keyW, width, i == m.cursor))
	}
	return strings.Join(lines, "\n")
}

func keyColumnWidth(entries []envfile.Entry, width int) int {
	w := minKeyColumn
	for _, e := range entries {
		if e.IsVariable() {
			w = max(w, runewidth.StringWidth(singleLine(e.Key)))
		}
	}
	return max(min(w, width/3), 1)
}

func (m Model) renderRow(e envfile.Entry, dup envfile.DuplicateStatus, keyW, width int, selected bool) string {
	var editing *fieldEdit
	if m.edit != nil && m.edit.entryID == e.ID && m.edit.field != editRename {
		editing = m.edit
	}

	var line string
	if e.IsComment() {
		switch {
		case editing != nil:
			line = m.theme.RowComment.Render("# ") + editing.input.View()
		case e.IsBlank():
			line = ""
		default:
			line = m.theme.RowComment.Render("# " + singleLine(e.Key))
		}
	} else {
		keyStyle := m.theme.RowKey
		switch dup {
		case envfile.DupFirst:
			keyStyle = m.theme.RowFirstOfDup
		case envfile.DupDuplicate:
			keyStyle = m.theme.RowDuplicate
		}
		valueStyle := m.theme.RowValue
		value := singleLine(e.Value)
		if m.mask && value != "" {
			value = maskValue(e.Value)
			valueStyle = m.theme.RowMasked
		}
		marker := enabledMark
		if !e.Enabled {
			marker = disabledMark
			keyStyle = m.theme.RowDisabled
			valueStyle = m.theme.RowDisabled
		}

		key := keyStyle.Render(fitPlain(singleLine(e.Key), keyW))
		val := valueStyle.Render(value)
		if editing != nil {
			if editing.field == editKey {
				key = editing.input.View()
			} else {
				val = editing.input.View()
			}
		}
		line = marker + key + " = " + val
		if dup == envfile.DupDuplicate && editing == nil {
			line += " " + m.theme.Warning.Render("(duplicate)")
		}
	}

	line = truncate(line, width)
	if selected {
		line = m.theme.RowSelected.Render(padRight(line, width))
	}
	return line
}

func (m Model) renderHelp(width, height int) string {
	keyW := 0
	rows := make([][2]string, 0, len(bindings.KnownActions()))
	for _, id := range bindings.KnownActions() {
		keys := strings.Join(m.keys.KeysFor(id), ", ")
		if keys == "" {
			continue
		}
		keyW = max(keyW, runewidth.StringWidth(keys))
		rows = append(rows, [2]string{keys, bindings.Describe(id)})
	}
	keyW = min(keyW, width/2)
	lines := []string{m.theme.PaneTitle.Render("Keys") + m.theme.RowComment.Render("  esc to close")}
	for _, r := range rows {
		lines = append(lines, m.theme.StatusBarKey.Render(fitPlain(r[0], keyW))+"  "+m.theme.StatusBarValue.Render(r[1]))
	}
	return clipLines(strings.Join(lines, "\n"), height, width)
}

func (m Model) renderStatus() string {
	switch {
	case m.prompt != nil:
		return m.renderPrompt()
	case m.picker != nil:
		return m.renderPicker()
	}

	var left string
	msg := m.statusMessage
	switch msg.level {
	case statusWarn:
		left = m.theme.Warning.Render(msg.text)
	case statusError:
		left = m.theme.Error.Render(msg.text)
	case statusSuccess:
		left = m.theme.Success.Render(msg.text)
	default:
		left = m.theme.StatusBarValue.Render(msg.text)
	}
	if len(m.pending) > 0 {
		left = m.theme.StatusBarKey.Render(strings.Join(m.pending, " ")+"…") + statusDivider + left
	}
	if m.busy != "" {
		left = m.theme.Notification.Render(m.busy+"…") + " " + left
	}

	right := m.renderHints()
	gap := m.width - lipgloss.Width(right) - 2
	return m.theme.StatusBar.Render(padRight(truncate(left, gap-1), gap) + right)
}

func (m Model) renderHints() string {
	hints := []struct {
		id    bindings.ActionID
		label string
	}{
		{bindings.ActionSaveFile, "save"},
		{bindings.ActionCycleView, "view"},
		{bindings.ActionToggleHelp, "help"},
	}
	var parts []string
	for i, h := range hints {
		keys := m.keys.KeysFor(h.id)
		if len(keys) == 0 {
			continue
		}
		seg := m.theme.CommandSegment(i)
		key := lipgloss.NewStyle().Foreground(seg.Key).Background(seg.Background).Bold(true).Padding(0, 1).Render(keys[0])
		text := lipgloss.NewStyle().Foreground(seg.Text).Render(h.label)
		parts = append(parts, key+" "+text)
	}
	return strings.Join(parts, m.theme.CommandDivider.Render(statusDivider))
}

func (m Model) renderPrompt() string {
	p := m.prompt
	title := p.req.title
	if title == "" {
		title = "Path"
	}
	line := m.theme.PromptTitle.Render(title) + " " + p.input.View()
	if len(p.suggestions) > 0 {
		opts := make([]string, len(p.suggestions))
		for i, s := range p.suggestions {
			if i == p.sel {
				opts[i] = m.theme.TabActive.Render(s)
			} else {
				opts[i] = m.theme.TabInactive.Render(s)
			}
		}
		line += "  " + strings.Join(opts, "")
	}
	return truncate(m.theme.StatusBar.Render(line), m.width)
}

func (m Model) renderPicker() string {
	opts := make([]string, len(m.picker.formats))
	for i, f := range m.picker.formats {
		if i == m.picker.sel {
			opts[i] = m.theme.TabActive.Render(f.Label())
		} else {
			opts[i] = m.theme.TabInactive.Render(f.Label())
		}
	}
	line := m.theme.PromptTitle.Render("Export as") + " " + strings.Join(opts, "") +
		m.theme.RowComment.Render("  enter to choose, esc to cancel")
	return truncate(m.theme.StatusBar.Render(line), m.width)
}

// clipLines limits content to height lines of at most width cells.
func clipLines(content string, height, width int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = truncate(l, width)
	}
	return strings.Join(lines, "\n")
}
