package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yijiazho/calendar/internal/backend"
	"github.com/yijiazho/calendar/internal/logger"
	"github.com/yijiazho/calendar/internal/views"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	advisoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

func (m Model) View() string {
	if m.navigated != "" {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Calendar Aggregator"))
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.tab {
	case TabLogin:
		s.WriteString(m.renderLoginView())
	case TabCalendar:
		s.WriteString(m.renderCalendarView())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.helpText()))
	return s.String()
}

// renderTabs draws the selector; the current tab's button is the disabled one.
func (m Model) renderTabs() string {
	tabs := []Tab{TabLogin, TabCalendar}
	rendered := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderLoginView() string {
	var s strings.Builder
	snap := m.login.Snapshot()

	s.WriteString(headerStyle.Render("Login"))
	s.WriteString("\n\n")

	keys := map[backend.Provider]string{
		backend.ProviderGoogle:  "g",
		backend.ProviderOutlook: "o",
	}

	buttons := make([]string, 0, len(backend.Providers))
	for _, p := range backend.Providers {
		label := fmt.Sprintf("[%s] Login with %s", keys[p], p.Title())
		if snap.Active == p {
			label = m.spinner.View() + " Redirecting..."
		}
		buttons = append(buttons, button(label, snap.State == views.LoginIdle))
	}
	s.WriteString(strings.Join(buttons, "  "))
	s.WriteString("\n")

	if snap.Err != "" {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(snap.Err))
		s.WriteString("\n")
	}

	return s.String()
}

func (m Model) renderCalendarView() string {
	var s strings.Builder
	snap := m.calendar.Snapshot()

	s.WriteString(headerStyle.Render("Calendar"))
	s.WriteString("\n\n")

	label := "[f] Fetch Calendar Events"
	if snap.State == views.CalendarLoading {
		label = m.spinner.View() + " Loading..."
	}
	s.WriteString(button(label, snap.Enabled()))
	s.WriteString("  ")
	s.WriteString(m.renderSessionLine())
	s.WriteString("\n")

	if m.editingToken {
		s.WriteString("\n")
		s.WriteString(m.tokenInput.View())
		s.WriteString("\n")
		if m.tokenErr != "" {
			s.WriteString(errorStyle.Render(m.tokenErr))
			s.WriteString("\n")
		}
	}

	if snap.Err != "" {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(snap.Err))
		s.WriteString("\n")
	}

	if out := snap.Display(); out != "" {
		s.WriteString("\n")
		s.WriteString(resultStyle.Render(m.viewport.View()))
		s.WriteString("\n")
	}

	if !snap.HasToken {
		s.WriteString("\n")
		s.WriteString(advisoryStyle.Render(views.Advisory))
		s.WriteString("\n")
	}

	return s.String()
}

func (m Model) renderSessionLine() string {
	token, ok := m.session.Token()
	if !ok {
		return mutedStyle.Render("no session")
	}
	return mutedStyle.Render("session " + logger.TokenHint(token))
}

func (m Model) helpText() string {
	if m.editingToken {
		return "enter: save token • esc: cancel"
	}
	switch m.tab {
	case TabCalendar:
		return "f: fetch • t: set token • x: clear token • ↑/↓: scroll • tab: switch • q: quit"
	default:
		return "g: Google • o: Outlook • tab: switch • q: quit"
	}
}

func button(label string, enabled bool) string {
	if enabled {
		return buttonStyle.Render(label)
	}
	return buttonDisabledStyle.Render(label)
}
