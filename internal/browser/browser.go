package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/yijiazho/calendar/internal/logger"
)

// Navigator sends the user to a URL outside the client. Navigation ends the
// client's part of the login flow.
type Navigator interface {
	Navigate(target string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string) error

func (f NavigatorFunc) Navigate(target string) error {
	return f(target)
}

// System opens targets in the desktop's default browser.
type System struct {
	// command overrides the platform opener; used by tests.
	command func(name string, args ...string) *exec.Cmd
}

func NewSystem() *System {
	return &System{command: exec.Command}
}

func (s *System) Navigate(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid navigation target: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open non-web URL %q", u.Redacted())
	}

	name, args := openerFor(runtime.GOOS, target)
	cmd := s.command(name, args...)

	logger.Debug("opening browser", "opener", name, "target", target)

	// Start, not Run: the browser outlives us.
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Warn("browser opener exited with error", "opener", name, "error", err)
		}
	}()
	return nil
}

func openerFor(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// Printer only reports the target; it is the --no-browser navigator.
type Printer struct {
	Print func(target string)
}

func (p Printer) Navigate(target string) error {
	if p.Print != nil {
		p.Print(target)
	}
	return nil
}
