package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yijiazho/calendar/internal/backend"
	"github.com/yijiazho/calendar/internal/logger"
	"github.com/yijiazho/calendar/internal/nerdfonts"
	"github.com/yijiazho/calendar/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check configuration, session and backend health",
	Long: `Display the current state of the client including:
- Which config file and backend URL are in use
- Whether a session token is present
- Whether the backend answers its health check

This command helps you check that the backend is reachable before logging in.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println(sectionStyle.Render("=== Configuration ==="))

	configFile := settings.ConfigFileUsed()
	if configFile == "" {
		configFile = "(defaults)"
	}
	fmt.Printf("%s Config file: %s\n", nerdfonts.Cog, configFile)
	fmt.Printf("%s Backend: %s\n", nerdfonts.Server, cfg.API.BaseURL)
	fmt.Printf("%s Events endpoint: %s\n", nerdfonts.Calendar, cfg.API.EventsPath)

	fmt.Println()
	fmt.Println(sectionStyle.Render("=== Session ==="))
	sess := newSession()
	if token, ok := sess.Token(); ok {
		fmt.Printf("%s Token: %s\n", nerdfonts.Key, logger.TokenHint(token))
		if info, ok := session.Inspect(token); ok {
			printTokenInfo(info)
		}
	} else {
		fmt.Printf("%s Token: none (run 'calagg login <provider>', then pass --token)\n", nerdfonts.ExclamationCircle)
	}

	fmt.Println()
	fmt.Println(sectionStyle.Render("=== Backend ==="))
	client, err := newBackendClient()
	if err != nil {
		return err
	}
	defer client.Close()

	env, err := client.Health(cmd.Context())
	if err != nil {
		fmt.Printf("%s Health: unreachable (%s)\n", nerdfonts.ExclamationTriangle, describe(err))
		return nil
	}

	fmt.Printf("%s Health: %s\n", nerdfonts.CheckCircle, statusText(env))
	return nil
}

func printTokenInfo(info session.TokenInfo) {
	if info.Issuer != "" {
		fmt.Printf("  Issuer: %s\n", info.Issuer)
	}
	if info.Subject != "" {
		fmt.Printf("  Subject: %s\n", info.Subject)
	}
	if info.ExpiresAt.IsZero() {
		return
	}
	now := time.Now()
	if info.Expired(now) {
		fmt.Printf("  %s Expired: %s (log in again)\n", nerdfonts.ExclamationCircle, info.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		return
	}
	fmt.Printf("  Expires: %s (in %s)\n",
		info.ExpiresAt.Local().Format("2006-01-02 15:04:05"),
		info.ExpiresAt.Sub(now).Truncate(time.Second))
}

// describe renders a backend error for one-line CLI output.
func describe(err error) string {
	var failed *backend.RequestFailedError
	if errors.As(err, &failed) && failed.StatusCode == 0 && failed.Err != nil {
		return "connection failed: " + failed.Err.Error()
	}
	return err.Error()
}

func statusText(env *backend.Envelope) string {
	switch {
	case env.Status != "" && env.Message != "":
		return fmt.Sprintf("%s (%s)", env.Status, env.Message)
	case env.Status != "":
		return env.Status
	case env.Message != "":
		return env.Message
	default:
		return "OK"
	}
}
