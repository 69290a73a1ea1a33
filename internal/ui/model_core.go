// Package ui is the terminal front end: a sidebar of open documents, an
// entry table with raw and JSON views, and prompts for file locations.
package ui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/unkn0wn-root/envdesk/internal/bindings"
	"github.com/unkn0wn-root/envdesk/internal/docstore"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
	"github.com/unkn0wn-root/envdesk/internal/theme"
)

var _ tea.Model = (*Model)(nil)

type viewMode int

const (
	viewTable viewMode = iota
	viewRaw
	viewJSON
	// viewDiff shows the last sync check. It is not part of the tab cycle.
	viewDiff
)

var viewTitles = []string{"Table", "Raw", "JSON"}

const (
	sidebarMinWidth = 18
	sidebarMaxWidth = 32
	eventBuffer     = 64
)

type Config struct {
	Store   *docstore.Store
	Dialogs *Dialogs
	Theme   *theme.Theme
	Keys    *bindings.Map
	// MaskValues hides variable values until toggled.
	MaskValues    bool
	DefaultExport envfmt.Format
	// WorkDir anchors relative paths typed into prompts.
	WorkDir   string
	Clipboard Clipboard
	Logger    *slog.Logger
	Context   context.Context
}

type Model struct {
	cfg     Config
	ctx     context.Context
	store   *docstore.Store
	dialogs *Dialogs
	theme   theme.Theme
	keys    *bindings.Map
	clip    Clipboard
	log     *slog.Logger
	profile termenv.Profile

	events      chan docstore.Event
	unsubscribe func()

	width  int
	height int
	ready  bool

	view     viewMode
	cursor   int
	offset   int
	pending  []string
	mask     bool
	showHelp bool
	register string

	statusMessage statusMsg
	// changed marks documents whose file was modified outside the editor.
	changed map[string]bool
	// confirm holds the action that needs a second press, e.g. closing a
	// dirty document.
	confirm string
	busy    string

	edit   *fieldEdit
	raw    *rawEdit
	prompt *pathPrompt
	picker *formatPicker

	viewport viewport.Model
	diff     string
	diffDoc  string
}

func New(cfg Config) Model {
	th := theme.DefaultTheme()
	if cfg.Theme != nil {
		th = *cfg.Theme
	}
	keys := cfg.Keys
	if keys == nil {
		keys = bindings.DefaultMap()
	}
	clip := cfg.Clipboard
	if clip == nil {
		clip = systemClipboard{}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.DefaultExport.Valid() {
		cfg.DefaultExport = envfmt.FormatJSON
	}

	m := Model{
		cfg:      cfg,
		ctx:      ctx,
		store:    cfg.Store,
		dialogs:  cfg.Dialogs,
		theme:    th,
		keys:     keys,
		clip:     clip,
		log:      log,
		profile:  termenv.ColorProfile(),
		mask:     cfg.MaskValues,
		changed:  make(map[string]bool),
		viewport: viewport.New(0, 0),
		events:   make(chan docstore.Event, eventBuffer),
	}
	if m.store != nil {
		events := m.events
		m.unsubscribe = m.store.Subscribe(func(evt docstore.Event) {
			select {
			case events <- evt:
			default:
			}
		})
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), m.dialogs.wait())
}

// Close detaches the model from the store.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func waitForEvent(events <-chan docstore.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return nil
		}
		return storeEventMsg{evt: evt}
	}
}

func (m *Model) activeDoc() (docstore.Document, bool) {
	if m.store == nil {
		return docstore.Document{}, false
	}
	return m.store.Active()
}

func (m *Model) clampCursor() {
	doc, ok := m.activeDoc()
	if !ok || len(doc.Entries) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	m.cursor = max(0, min(m.cursor, len(doc.Entries)-1))
	m.alignOffset(len(doc.Entries))
}
