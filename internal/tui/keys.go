package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yijiazho/calendar/internal/backend"
	"github.com/yijiazho/calendar/internal/session"
)

func (m Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "g":
		return m, m.startLogin(backend.ProviderGoogle)
	case "o":
		return m, m.startLogin(backend.ProviderOutlook)
	}
	return m, nil
}

func (m Model) handleCalendarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f", "enter":
		cmd := m.startFetch()
		if cmd != nil {
			m.viewport.SetContent("")
		}
		return m, cmd
	case "t":
		m.editingToken = true
		m.tokenErr = ""
		m.tokenInput.SetValue("")
		return m, m.tokenInput.Focus()
	case "x":
		m.session.Clear()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleTokenKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editingToken = false
		m.tokenErr = ""
		m.tokenInput.Blur()
		return m, nil
	case tea.KeyEnter:
		token, err := session.TokenFromCallback([]byte(m.tokenInput.Value()))
		if err != nil {
			m.tokenErr = err.Error()
			return m, nil
		}
		m.session.SetToken(token)
		m.editingToken = false
		m.tokenErr = ""
		m.tokenInput.SetValue("")
		m.tokenInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.tokenInput, cmd = m.tokenInput.Update(msg)
	return m, cmd
}
