package ui

import (
	"strings"

	"github.com/unkn0wn-root/envdesk/internal/envfile"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
	"github.com/unkn0wn-root/envdesk/internal/ui/scroll"
)

func (m Model) sidebarWidth() int {
	return max(sidebarMinWidth, min(m.width/4, sidebarMaxWidth))
}

// mainWidth is the inner width of the main pane.
func (m Model) mainWidth() int {
	return max(m.width-(m.sidebarWidth()+2)-2, 10)
}

// bodyHeight is the inner height of the sidebar and main pane, below the
// header and above the status line.
func (m Model) bodyHeight() int {
	return max(m.height-4, 3)
}

// contentHeight leaves room for the tab row.
func (m Model) contentHeight() int {
	return max(m.bodyHeight()-1, 1)
}

func (m *Model) applyLayout() {
	m.viewport.Width = m.mainWidth()
	m.viewport.Height = m.contentHeight()
	if m.raw != nil {
		m.raw.area.SetWidth(m.mainWidth())
		m.raw.area.SetHeight(m.contentHeight())
	}
	if m.prompt != nil {
		m.prompt.input.Width = max(m.width-8, 20)
	}
	m.clampCursor()
	m.refreshViewport()
}

// alignOffset keeps the selected row inside the table window.
func (m *Model) alignOffset(total int) {
	m.offset = scroll.Align(m.cursor, m.offset, m.contentHeight(), total)
}

// refreshViewport renders the text views into the viewport.
func (m *Model) refreshViewport() {
	var content string
	switch m.view {
	case viewTable:
		return
	case viewDiff:
		content = m.renderDiff(m.diff)
	default:
		doc, ok := m.activeDoc()
		if !ok {
			m.viewport.SetContent("")
			return
		}
		entries := doc.Entries
		if m.mask {
			entries = maskEntries(entries)
		}
		if m.view == viewRaw {
			content, _ = highlight(envfmt.Env(entries), "bash", m.theme.Highlight, m.profile)
		} else {
			text, err := envfmt.FullJSON(entries)
			if err != nil {
				m.log.Warn("json render failed", "err", err)
			}
			content, _ = highlight(text, "json", m.theme.Highlight, m.profile)
		}
	}
	m.viewport.SetContent(content)
}

func maskEntries(entries []envfile.Entry) []envfile.Entry {
	out := envfile.Clone(entries, false)
	for i := range out {
		if out[i].IsVariable() {
			out[i].Value = maskValue(out[i].Value)
		}
	}
	return out
}

func (m Model) renderDiff(diff string) string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = m.theme.PaneTitle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = m.theme.RowComment.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = m.theme.DiffAdded.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = m.theme.DiffRemoved.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
