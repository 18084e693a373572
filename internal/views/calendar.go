package views

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"golang.org/x/oauth2"

	"github.com/yijiazho/calendar/internal/backend"
	"github.com/yijiazho/calendar/internal/logger"
	"github.com/yijiazho/calendar/internal/session"
)

type CalendarState int

const (
	CalendarIdle CalendarState = iota
	CalendarLoading
	CalendarLoaded
	CalendarError
)

func (s CalendarState) String() string {
	switch s {
	case CalendarIdle:
		return "idle"
	case CalendarLoading:
		return "loading"
	case CalendarLoaded:
		return "loaded"
	case CalendarError:
		return "error"
	default:
		return "unknown"
	}
}

// EventsBackend fetches the calendar events body.
type EventsBackend interface {
	Events(ctx context.Context, ts oauth2.TokenSource, q backend.EventsQuery) (json.RawMessage, error)
}

// CalendarSnapshot is a copy of the calendar view's state for rendering.
type CalendarSnapshot struct {
	State    CalendarState
	HasToken bool
	Data     json.RawMessage
	Err      string
}

// Enabled mirrors CalendarView.Enabled for the captured state.
func (s CalendarSnapshot) Enabled() bool {
	return s.HasToken && s.State != CalendarLoading
}

// Display is the response pretty-printed with two-space indentation, or
// empty when there is nothing to show.
func (s CalendarSnapshot) Display() string {
	return prettyJSON(s.Data)
}

// CalendarView fetches the user's aggregated events with the session's
// token and keeps the raw response for display.
type CalendarView struct {
	backend EventsBackend
	session *session.Session

	mu      sync.Mutex
	query   backend.EventsQuery
	loading bool
	data    json.RawMessage
	err     string
}

func NewCalendarView(b EventsBackend, s *session.Session) *CalendarView {
	return &CalendarView{backend: b, session: s}
}

// SetQuery sets the time window sent with later fetches.
func (v *CalendarView) SetQuery(q backend.EventsQuery) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = q
}

// Enabled reports whether the fetch trigger accepts input: a session is
// present and no fetch is in flight.
func (v *CalendarView) Enabled() bool {
	v.mu.Lock()
	loading := v.loading
	v.mu.Unlock()
	return !loading && v.session.HasToken()
}

func (v *CalendarView) Snapshot() CalendarSnapshot {
	hasToken := v.session.HasToken()

	v.mu.Lock()
	defer v.mu.Unlock()

	snap := CalendarSnapshot{
		HasToken: hasToken,
		Data:     v.data,
		Err:      v.err,
	}
	switch {
	case v.loading:
		snap.State = CalendarLoading
	case v.err != "":
		snap.State = CalendarError
	case v.data != nil:
		snap.State = CalendarLoaded
	default:
		snap.State = CalendarIdle
	}
	return snap
}

// Display is the last response pretty-printed, or empty.
func (v *CalendarView) Display() string {
	return v.Snapshot().Display()
}

// FetchEvents runs one fetch to completion.
func (v *CalendarView) FetchEvents(ctx context.Context) error {
	run, err := v.Start()
	if err != nil {
		return err
	}
	return run(ctx)
}

// Start reserves the in-flight slot, clears the previous result and error,
// and returns the request to run. Without a session it returns ErrNoToken;
// with a fetch already in flight it returns ErrBusy. Neither sends anything.
func (v *CalendarView) Start() (func(ctx context.Context) error, error) {
	if !v.session.HasToken() {
		return nil, ErrNoToken
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loading {
		return nil, ErrBusy
	}

	v.loading = true
	v.err = ""
	v.data = nil
	q := v.query

	return func(ctx context.Context) error {
		return v.run(ctx, q)
	}, nil
}

func (v *CalendarView) run(ctx context.Context, q backend.EventsQuery) error {
	defer v.release()

	logger.Info("fetching calendar events")

	data, err := v.backend.Events(ctx, v.session.TokenSource(), q)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.err = message(err)
		logger.Warn("fetch events failed", "error", err)
		return err
	}

	v.data = data
	logger.Info("fetched calendar events", "bytes", len(data))
	return nil
}

func (v *CalendarView) release() {
	v.mu.Lock()
	v.loading = false
	v.mu.Unlock()
}

func prettyJSON(data json.RawMessage) string {
	if len(data) == 0 || string(data) == "null" {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
