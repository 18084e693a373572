package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yijiazho/calendar/internal/backend"
	"github.com/yijiazho/calendar/internal/nerdfonts"
	"github.com/yijiazho/calendar/internal/views"
)

var calendarsCmd = &cobra.Command{
	Use:   "calendars",
	Short: "List the providers connected to this session",
	Long: `Ask the backend which calendar providers are configured for the current session.

A session token is required (--token or CALAGG_TOKEN).

Example:
  calagg calendars --token ya29...`,
	RunE: runCalendars,
}

// calendarStatus is the data payload of /api/calendar/status.
type calendarStatus struct {
	ConfiguredProviders []string `json:"configuredProviders"`
}

func runCalendars(cmd *cobra.Command, args []string) error {
	sess := newSession()
	if !sess.HasToken() {
		return errors.New(views.Advisory)
	}

	client, err := newBackendClient()
	if err != nil {
		return err
	}
	defer client.Close()

	env, err := client.CalendarStatus(cmd.Context(), sess.TokenSource())
	if err != nil {
		return fmt.Errorf("failed to get calendar status: %w", err)
	}

	var status calendarStatus
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &status); err != nil {
			return fmt.Errorf("failed to decode calendar status: %w", err)
		}
	}

	fmt.Println(sectionStyle.Render("=== Connected Calendars ==="))
	if len(status.ConfiguredProviders) == 0 {
		fmt.Printf("%s No providers connected (run 'calagg login <provider>')\n", nerdfonts.Calendar)
		return nil
	}

	for _, name := range status.ConfiguredProviders {
		p := backend.Provider(name)
		fmt.Printf("%s %s\n", nerdfonts.ProviderIcon(p), p.Title())
	}
	fmt.Printf("\n%s Total providers: %d\n", nerdfonts.CalendarCheck, len(status.ConfiguredProviders))
	return nil
}

func init() {
	rootCmd.AddCommand(calendarsCmd)
}
