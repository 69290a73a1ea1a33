package ui

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
	"github.com/unkn0wn-root/envdesk/internal/filesvc"
)

const maxSuggestions = 6

// pathPrompt answers a Dialogs request from the status line. Tab completes
// from environment files next to the typed path.
type pathPrompt struct {
	req         *promptRequest
	input       textinput.Model
	suggestions []string
	sel         int
}

type formatPicker struct {
	formats []envfmt.Format
	sel     int
}

func (m *Model) openPrompt(req *promptRequest) tea.Cmd {
	if m.prompt != nil {
		m.prompt.req.answer(docstore.DialogResult{Cancelled: true})
	}
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 0
	input.Width = max(m.width-8, 20)
	input.SetValue(m.displayPath(req.defaultPath))
	input.CursorEnd()
	if req.multiple {
		input.Placeholder = "paths separated by commas"
	}
	m.edit = nil
	m.picker = nil
	m.prompt = &pathPrompt{req: req, input: input}
	m.refreshSuggestions()
	return m.prompt.input.Focus()
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	p := m.prompt
	switch msg.String() {
	case "esc", "ctrl+c":
		m.prompt = nil
		p.req.answer(docstore.DialogResult{Cancelled: true})
		return nil
	case "enter":
		paths := m.promptPaths(p)
		m.prompt = nil
		if len(paths) == 0 {
			p.req.answer(docstore.DialogResult{Cancelled: true})
			return nil
		}
		p.req.answer(docstore.DialogResult{Paths: paths})
		return nil
	case "tab":
		if len(p.suggestions) > 0 {
			m.completeSuggestion(p.suggestions[p.sel])
		}
		return nil
	case "up":
		if len(p.suggestions) > 0 {
			p.sel = (p.sel - 1 + len(p.suggestions)) % len(p.suggestions)
		}
		return nil
	case "down":
		if len(p.suggestions) > 0 {
			p.sel = (p.sel + 1) % len(p.suggestions)
		}
		return nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	m.refreshSuggestions()
	return cmd
}

// promptPaths splits the typed value into absolute paths.
func (m *Model) promptPaths(p *pathPrompt) []string {
	raw := []string{p.input.Value()}
	if p.req.multiple {
		raw = strings.Split(p.input.Value(), ",")
	}
	var out []string
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, m.resolvePath(r))
	}
	return out
}

func (m *Model) resolvePath(p string) string {
	if strings.HasPrefix(p, "~"+string(filepath.Separator)) || p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) && m.cfg.WorkDir != "" {
		p = filepath.Join(m.cfg.WorkDir, p)
	}
	return filepath.Clean(p)
}

// displayPath shortens paths under the working directory.
func (m *Model) displayPath(p string) string {
	if p == "" || m.cfg.WorkDir == "" {
		return p
	}
	if rel, err := filepath.Rel(m.cfg.WorkDir, p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return p
}

// currentSegment is the path being typed; for multi-path prompts only the
// part after the last comma.
func currentSegment(value string, multiple bool) (prefix, segment string) {
	if !multiple {
		return "", value
	}
	idx := strings.LastIndex(value, ",")
	if idx < 0 {
		return "", value
	}
	return value[:idx+1] + " ", strings.TrimSpace(value[idx+1:])
}

func (m *Model) refreshSuggestions() {
	p := m.prompt
	_, seg := currentSegment(p.input.Value(), p.req.multiple)
	dir := m.cfg.WorkDir
	base := seg
	if strings.ContainsRune(seg, filepath.Separator) {
		dir = m.resolvePath(filepath.Dir(seg))
		base = filepath.Base(seg)
		if strings.HasSuffix(seg, string(filepath.Separator)) {
			dir = m.resolvePath(seg)
			base = ""
		}
	}
	p.suggestions = nil
	p.sel = 0
	if dir == "" {
		return
	}
	files, err := filesvc.ListEnvFiles(dir, false)
	if err != nil {
		return
	}
	for _, f := range files {
		if !strings.HasPrefix(strings.ToLower(f.Name), strings.ToLower(base)) || f.Name == base {
			continue
		}
		if p.req.kind == promptOpen && len(p.req.filters) > 0 && !envfmt.Match(p.req.filters, f.Name) && !filesvc.IsEnvFileName(f.Name) {
			continue
		}
		p.suggestions = append(p.suggestions, m.displayPath(f.Path))
		if len(p.suggestions) == maxSuggestions {
			break
		}
	}
	slices.Sort(p.suggestions)
}

func (m *Model) completeSuggestion(s string) {
	p := m.prompt
	prefix, _ := currentSegment(p.input.Value(), p.req.multiple)
	p.input.SetValue(prefix + s)
	p.input.CursorEnd()
	m.refreshSuggestions()
}

func (m *Model) openPicker() {
	formats := envfmt.Formats()
	sel := max(slices.Index(formats, m.cfg.DefaultExport), 0)
	m.picker = &formatPicker{formats: formats, sel: sel}
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	p := m.picker
	switch msg.String() {
	case "esc", "q":
		m.picker = nil
		return nil
	case "up", "k", "left", "h":
		p.sel = (p.sel - 1 + len(p.formats)) % len(p.formats)
		return nil
	case "down", "j", "right", "l", "tab":
		p.sel = (p.sel + 1) % len(p.formats)
		return nil
	case "enter":
		m.picker = nil
		doc, ok := m.activeDoc()
		if !ok {
			return nil
		}
		return m.saveAs(doc, p.formats[p.sel])
	}
	return nil
}
