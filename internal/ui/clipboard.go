package ui

import (
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard is the system clipboard. Tests swap in a fake.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

func normalizeClipboardText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// writeClipboard copies text, keeping it in the register when the system
// clipboard is unavailable.
func (m *Model) writeClipboard(text, success string) statusMsg {
	text = normalizeClipboardText(text)
	m.register = text
	if text == "" {
		return statusMsg{text: "Nothing to copy", level: statusWarn}
	}
	if err := m.clip.WriteAll(text); err != nil {
		m.log.Debug("clipboard write failed", "err", err)
		return statusMsg{text: "Clipboard unavailable; saved in register", level: statusWarn}
	}
	return statusMsg{text: success, level: statusSuccess}
}

// readClipboard returns the clipboard text, falling back to the register
// when the clipboard is empty or unreadable.
func (m *Model) readClipboard() (string, bool) {
	text, err := m.clip.ReadAll()
	if err != nil {
		m.log.Debug("clipboard read failed", "err", err)
	}
	if err == nil && text != "" {
		text = normalizeClipboardText(text)
		m.register = text
		return text, true
	}
	if m.register != "" {
		return m.register, true
	}
	return "", false
}
