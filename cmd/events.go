package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yijiazho/calendar/internal/backend"
	"github.com/yijiazho/calendar/internal/nerdfonts"
	"github.com/yijiazho/calendar/internal/views"
)

var (
	eventsStart string
	eventsEnd   string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Fetch the aggregated calendar events",
	Long: `Fetch calendar events for the current session and print them as indented JSON.

A session token is required (--token or CALAGG_TOKEN). The optional window is
passed to the backend as start/end query parameters.

Examples:
  calagg events --token ya29...
  calagg events --start 2024-05-01 --end 2024-05-08T12:00:00`,
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventsStart, "start", "", "window start (YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS or RFC 3339)")
	eventsCmd.Flags().StringVar(&eventsEnd, "end", "", "window end (same formats as --start)")
}

func runEvents(cmd *cobra.Command, args []string) error {
	query, err := parseWindow(eventsStart, eventsEnd)
	if err != nil {
		return err
	}

	client, err := newBackendClient()
	if err != nil {
		return err
	}
	defer client.Close()

	view := views.NewCalendarView(client, newSession())
	view.SetQuery(query)

	if err := view.FetchEvents(cmd.Context()); err != nil {
		if errors.Is(err, views.ErrNoToken) {
			return errors.New(views.Advisory)
		}
		fmt.Printf("%s %s\n", nerdfonts.ExclamationTriangle, view.Snapshot().Err)
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Println(view.Display())
	return nil
}

var windowLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseWindow(start, end string) (backend.EventsQuery, error) {
	var q backend.EventsQuery
	var err error
	if q.Start, err = parseWindowTime("start", start); err != nil {
		return q, err
	}
	if q.End, err = parseWindowTime("end", end); err != nil {
		return q, err
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.End.Before(q.Start) {
		return q, fmt.Errorf("--end %s is before --start %s", end, start)
	}
	return q, nil
}

func parseWindowTime(name, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range windowLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --%s %q", name, s)
}
