package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yijiazho/calendar/internal/browser"
	"github.com/yijiazho/calendar/internal/config"
	"github.com/yijiazho/calendar/internal/logger"
	"github.com/yijiazho/calendar/internal/nerdfonts"
	"github.com/yijiazho/calendar/internal/tui"
	"github.com/yijiazho/calendar/internal/views"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive Login / Calendar shell",
	Long: `Open a full-screen shell with two tabs.

Login starts the Google or Outlook flow and hands off to the browser.
Calendar fetches the events for the current session; press 't' to paste the
token (or the backend's callback JSON) the login produced.

Logs are written to the file in log.file while the shell is open.`,
	RunE: runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("calagg ui needs an interactive terminal; use 'calagg login' or 'calagg events' in scripts")
	}

	closeLog, err := redirectLogs()
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := newBackendClient()
	if err != nil {
		return err
	}
	defer client.Close()

	var nav browser.Navigator = browser.NewSystem()
	if !cfg.Browser.Open {
		// The target is printed after the shell exits.
		nav = browser.Printer{}
	}

	sess := newSession()
	model := tui.NewModel(
		sess,
		views.NewLoginView(client, nav),
		views.NewCalendarView(client, sess),
		tui.ParseTab(cfg.UI.StartTab),
	)
	defer model.Close()

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.Navigated() != "" {
		fmt.Printf("%s Continue the login in your browser:\n%s %s\n", nerdfonts.SignIn, nerdfonts.Link, m.Navigated())
	}
	return nil
}

// redirectLogs points the logger at log.file, or the XDG state file, so
// log lines do not tear the alt-screen.
func redirectLogs() (func(), error) {
	path := cfg.Log.File
	if path == "" {
		var err error
		path, err = config.DefaultLogFile()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log file: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
