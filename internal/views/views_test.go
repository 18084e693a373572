package views

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yijiazho/calendar/internal/backend"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestMessage(t *testing.T) {
	status := backend.NewRequestFailedError("fetch events", http.StatusInternalServerError, "Failed to fetch calendar events")
	assert.Equal(t, "Failed to fetch calendar events", message(status))

	transport := backend.NewRequestFailedError("fetch events", 0, "request failed").WithCause(errors.New("connection refused"))
	assert.Equal(t, "connection refused", message(transport))

	malformed := backend.NewMalformedResponseError("login google", "data", "No redirect URL received")
	assert.Equal(t, "No redirect URL received", message(malformed))

	assert.Equal(t, "boom", message(errors.New("boom")))
	assert.Equal(t, "Unknown error", message(errors.New("")))
}
