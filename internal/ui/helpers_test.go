package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/filesvc"
	"github.com/unkn0wn-root/envdesk/internal/prefs"
)

type fakeClipboard struct {
	text   string
	err    error
	writes int
}

func (c *fakeClipboard) ReadAll() (string, error) {
	return c.text, c.err
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	c.writes++
	return nil
}

type harness struct {
	t       *testing.T
	dir     string
	store   *docstore.Store
	dialogs *Dialogs
	clip    *fakeClipboard
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	fs := filesvc.NewOS(filesvc.OSOptions{})
	t.Cleanup(func() { _ = fs.Close() })
	dialogs := NewDialogs()
	return &harness{
		t:       t,
		dir:     dir,
		store:   docstore.New(fs, dialogs, prefs.NewMemory(), docstore.Options{}),
		dialogs: dialogs,
		clip:    &fakeClipboard{},
	}
}

func (h *harness) path(name string) string {
	return filepath.Join(h.dir, name)
}

func (h *harness) open(name string) string {
	h.t.Helper()
	id, err := h.store.Open(h.t.Context(), h.path(name))
	if err != nil {
		h.t.Fatalf("open %s: %v", name, err)
	}
	return id
}

func (h *harness) model() Model {
	h.t.Helper()
	m := New(Config{
		Store:     h.store,
		Dialogs:   h.dialogs,
		Clipboard: h.clip,
		WorkDir:   h.dir,
		Context:   h.t.Context(),
	})
	h.t.Cleanup(m.Close)
	m.profile = termenv.Ascii
	return update(h.t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func (h *harness) active() docstore.Document {
	h.t.Helper()
	doc, ok := h.store.Active()
	if !ok {
		h.t.Fatalf("no active document")
	}
	return doc
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+w":
		return tea.KeyMsg{Type: tea.KeyCtrlW}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+q":
		return tea.KeyMsg{Type: tea.KeyCtrlQ}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys in order and returns the command of the last one.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

// runAsync runs cmd on its own goroutine, as bubbletea would.
func runAsync(cmd tea.Cmd) <-chan tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	return ch
}
