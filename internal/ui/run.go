package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

// Run starts the full-screen editor and blocks until the user quits or
// cfg.Context is cancelled.
func Run(cfg Config) error {
	m := New(cfg)
	defer m.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Context != nil {
		opts = append(opts, tea.WithContext(cfg.Context))
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errdef.Wrap(errdef.CodeUI, err, "run terminal ui")
	}
	return nil
}
