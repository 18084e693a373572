package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yijiazho/calendar/internal/backend"
	"github.com/yijiazho/calendar/internal/browser"
	"github.com/yijiazho/calendar/internal/nerdfonts"
	"github.com/yijiazho/calendar/internal/views"
)

var noBrowser bool

var loginCmd = &cobra.Command{
	Use:   "login <google|outlook>",
	Short: "Start an OAuth login with Google or Outlook",
	Long: `Ask the backend for the provider's login URL and open it in the system browser.

The backend completes the OAuth flow on its callback endpoint and returns the
session token there. Hand that token back to calagg with --token, CALAGG_TOKEN
or the 't' key in 'calagg ui'.

Examples:
  calagg login google                 # Open Google's consent page
  calagg login outlook --no-browser   # Print the Outlook login URL only`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(backend.ProviderGoogle), string(backend.ProviderOutlook)},
	RunE:      runLogin,
}

func init() {
	loginCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "print the login URL instead of opening a browser")
}

func runLogin(cmd *cobra.Command, args []string) error {
	provider, err := backend.ParseProvider(args[0])
	if err != nil {
		return err
	}

	client, err := newBackendClient()
	if err != nil {
		return err
	}
	defer client.Close()

	var nav browser.Navigator = browser.NewSystem()
	if noBrowser || !cfg.Browser.Open {
		nav = browser.Printer{}
	}

	fmt.Printf("%s Requesting %s login from %s\n", nerdfonts.ProviderIcon(provider), provider.Title(), client.BaseURL())

	view := views.NewLoginView(client, nav)
	if err := view.InitiateLogin(cmd.Context(), provider); err != nil {
		if errors.Is(err, views.ErrBusy) || errors.Is(err, views.ErrNavigated) {
			return err
		}
		fmt.Printf("%s %s\n", nerdfonts.ExclamationTriangle, view.Snapshot().Err)
		return fmt.Errorf("login failed: %w", err)
	}

	target := view.Snapshot().Target
	fmt.Printf("%s Login URL: %s\n", nerdfonts.Link, target)
	if _, printed := nav.(browser.Printer); printed {
		fmt.Printf("%s Open the URL above to continue\n", nerdfonts.InfoCircle)
	} else {
		fmt.Printf("%s Opened in your browser\n", nerdfonts.CheckCircle)
	}
	return nil
}
