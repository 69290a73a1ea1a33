package ui

import (
	"strings"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

func (m *Model) setStatusMessage(msg statusMsg) {
	m.statusMessage = msg
	if msg.level == statusError && strings.TrimSpace(msg.text) != "" {
		m.log.Warn("ui error", "message", msg.text)
	}
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	if errdef.Cancelled(err) {
		m.setStatusMessage(statusMsg{text: "Cancelled", level: statusInfo})
		return
	}
	m.setStatusMessage(statusMsg{text: errdef.Message(err), level: statusError})
}
