// Package tui is the interactive shell: a two-tab bubbletea program over
// the login and calendar views.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yijiazho/calendar/internal/backend"
	"github.com/yijiazho/calendar/internal/logger"
	"github.com/yijiazho/calendar/internal/session"
	"github.com/yijiazho/calendar/internal/views"
)

// Tab is the root shell's two-state selector.
type Tab int

const (
	TabLogin Tab = iota
	TabCalendar
)

func (t Tab) String() string {
	if t == TabCalendar {
		return "Calendar"
	}
	return "Login"
}

// ParseTab maps the ui.start_tab config value to a Tab.
func ParseTab(s string) Tab {
	if s == "calendar" {
		return TabCalendar
	}
	return TabLogin
}

// loginDoneMsg is sent when a login request completes.
type loginDoneMsg struct {
	Provider backend.Provider
	Err      error
}

// fetchDoneMsg is sent when a calendar fetch completes.
type fetchDoneMsg struct {
	Err error
}

// sessionChangedMsg is sent whenever the session token changes.
type sessionChangedMsg struct{}

// Model is the root bubbletea model
type Model struct {
	session  *session.Session
	login    *views.LoginView
	calendar *views.CalendarView

	tab Tab

	spinner  spinner.Model
	viewport viewport.Model

	// Token entry state
	tokenInput   textinput.Model
	editingToken bool
	tokenErr     string

	sessionChanged chan struct{}
	unsubscribe    func()

	// navigated is the provider URL the user was sent to; the shell quits
	// once it is set.
	navigated string

	width  int
	height int
}

// NewModel wires the views into a shell starting on start.
func NewModel(sess *session.Session, login *views.LoginView, calendar *views.CalendarView, start Tab) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ti := textinput.New()
	ti.Placeholder = "paste a token or the callback JSON"
	ti.CharLimit = 8192
	ti.Width = 60
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'

	vp := viewport.New(80, 12)

	// Buffered so a burst of changes collapses into one re-render.
	changed := make(chan struct{}, 1)
	unsubscribe := sess.Subscribe(func(string, bool) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	return Model{
		session:        sess,
		login:          login,
		calendar:       calendar,
		tab:            start,
		spinner:        sp,
		viewport:       vp,
		tokenInput:     ti,
		sessionChanged: changed,
		unsubscribe:    unsubscribe,
		width:          80,
		height:         24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForSession())
}

// Navigated returns the URL the user was sent to, or "" if the shell exited
// without completing a login.
func (m Model) Navigated() string {
	return m.navigated
}

// Close releases the session subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m Model) waitForSession() tea.Cmd {
	ch := m.sessionChanged
	return func() tea.Msg {
		<-ch
		return sessionChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-14, 5)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginDoneMsg:
		return m.handleLoginDone(msg)

	case fetchDoneMsg:
		m.viewport.SetContent(m.calendar.Display())
		m.viewport.GotoTop()
		return m, nil

	case sessionChangedMsg:
		return m, m.waitForSession()
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.editingToken {
		return m.handleTokenKeys(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "right", "left", "shift+tab":
		if m.tab == TabLogin {
			m.tab = TabCalendar
		} else {
			m.tab = TabLogin
		}
		return m, nil
	case "1", "l":
		m.tab = TabLogin
		return m, nil
	case "2", "c":
		m.tab = TabCalendar
		return m, nil
	}

	switch m.tab {
	case TabLogin:
		return m.handleLoginKeys(msg)
	case TabCalendar:
		return m.handleCalendarKeys(msg)
	}
	return m, nil
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// The view already holds the message to show.
		return m, nil
	}
	m.navigated = m.login.Snapshot().Target
	logger.Info("login handed off to browser", "provider", msg.Provider)
	return m, tea.Quit
}

// startLogin reserves the login slot synchronously, so a second key press
// before the request finishes is ignored, and runs the request as a command.
func (m Model) startLogin(provider backend.Provider) tea.Cmd {
	run, err := m.login.Start(provider)
	if err != nil {
		logger.Debug("login trigger ignored", "provider", provider, "reason", err)
		return nil
	}
	return func() tea.Msg {
		return loginDoneMsg{Provider: provider, Err: run(context.Background())}
	}
}

func (m Model) startFetch() tea.Cmd {
	run, err := m.calendar.Start()
	if err != nil {
		logger.Debug("fetch trigger ignored", "reason", err)
		return nil
	}
	return func() tea.Msg {
		return fetchDoneMsg{Err: run(context.Background())}
	}
}
