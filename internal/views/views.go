// Package views holds the state machines behind the client's two screens,
// independent of how they are drawn.
//
// Each view allows one request in flight. Callers that must disable their
// trigger before the request runs (an event loop) use Start, which reserves
// the slot synchronously and hands back the work to run elsewhere; everyone
// else calls the blocking InitiateLogin or FetchEvents.
package views

import (
	"errors"

	"github.com/yijiazho/calendar/internal/backend"
)

var (
	// ErrBusy means the view already has a request in flight. Nothing was
	// sent and the view state is unchanged.
	ErrBusy = errors.New("request already in flight")

	// ErrNoToken means the calendar view has no session to authenticate with.
	ErrNoToken = errors.New("no session token")

	// ErrNavigated means the login view already handed the user to a provider.
	ErrNavigated = errors.New("login already completed")
)

// Advisory is shown on the calendar view while there is no session.
const Advisory = "Please login to fetch calendar events."

// message turns a request error into the line shown to the user. Request
// and response errors carry a fixed message; anything else is reported by
// its own text.
func message(err error) string {
	var reqErr *backend.RequestFailedError
	if errors.As(err, &reqErr) {
		if reqErr.StatusCode != 0 || reqErr.Err == nil {
			return reqErr.Message
		}
		return reqErr.Err.Error()
	}

	var malformed *backend.MalformedResponseError
	if errors.As(err, &malformed) {
		return malformed.Message
	}

	if err == nil || err.Error() == "" {
		return "Unknown error"
	}
	return err.Error()
}
