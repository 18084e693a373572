package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		BaseURL:    srv.URL,
		EventsPath: "/api/calendar/events",
		HealthPath: "/api/test/health",
	})
	require.NoError(t, err)
	return client, srv
}

func staticToken(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
}

func TestNewClientRejectsRelativeBase(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "/relative"})
	assert.Error(t, err)

	_, err = NewClient(Options{BaseURL: "::bad"})
	assert.Error(t, err)
}

func TestLoginURL(t *testing.T) {
	for _, provider := range Providers {
		t.Run(string(provider), func(t *testing.T) {
			var gotPath string
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				assert.Empty(t, r.Header.Get("Authorization"), "login must not carry credentials")
				fmt.Fprint(w, `{"status":"SUCCESS","message":"ok","data":"https://x"}`)
			})

			target, err := client.LoginURL(context.Background(), provider)
			require.NoError(t, err)
			assert.Equal(t, "https://x", target)
			assert.Equal(t, "/auth/login/"+string(provider), gotPath)
		})
	}
}

func TestLoginURLRelativeTarget(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":"/relative/path"}`)
	})

	target, err := client.LoginURL(context.Background(), ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/relative/path", target)
}

func TestLoginURLFailures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "bad request", status: http.StatusBadRequest, body: `{"status":"ERROR"}`},
		{name: "missing data", status: http.StatusOK, body: `{"status":"SUCCESS"}`, malformed: true},
		{name: "empty data", status: http.StatusOK, body: `{"data":""}`, malformed: true},
		{name: "null data", status: http.StatusOK, body: `{"data":null}`, malformed: true},
		{name: "non-string data", status: http.StatusOK, body: `{"data":{"url":"https://x"}}`, malformed: true},
		{name: "not json", status: http.StatusOK, body: `<html></html>`, malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := client.LoginURL(context.Background(), ProviderOutlook)
			require.Error(t, err)
			assert.Equal(t, tt.malformed, IsMalformedResponse(err), err.Error())
			assert.Equal(t, !tt.malformed, IsRequestFailed(err), err.Error())

			if !tt.malformed {
				var reqErr *RequestFailedError
				require.ErrorAs(t, err, &reqErr)
				assert.Equal(t, tt.status, reqErr.StatusCode)
				assert.Equal(t, "Failed to initiate outlook login", reqErr.Message)
			}
		})
	}
}

func TestResolveRedirect(t *testing.T) {
	client, err := NewClient(Options{BaseURL: "http://localhost:8080/"})
	require.NoError(t, err)

	assert.Equal(t, "https://accounts.example.com/o/auth?x=1", client.ResolveRedirect("https://accounts.example.com/o/auth?x=1"))
	assert.Equal(t, "http://localhost:8080/oauth2/authorization/google", client.ResolveRedirect("/oauth2/authorization/google"))
	assert.Equal(t, "http://localhost:8080/oauth2/authorization/google", client.ResolveRedirect("oauth2/authorization/google"))
}

func TestEventsSendsBearerToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/calendar/events", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "request id")
		fmt.Fprint(w, `{"events":[]}`)
	})

	body, err := client.Events(context.Background(), staticToken("tok-123"), EventsQuery{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"events":[]}`, string(body))
}

func TestEventsQueryWindow(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-03-01T00:00:00", r.URL.Query().Get("start"))
		assert.Equal(t, "2025-03-08T12:30:00", r.URL.Query().Get("end"))
		fmt.Fprint(w, `[]`)
	})

	q := EventsQuery{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 8, 12, 30, 0, 0, time.UTC),
	}
	_, err := client.Events(context.Background(), staticToken("t"), q)
	require.NoError(t, err)
}

func TestEventsFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := client.Events(context.Background(), staticToken("t"), EventsQuery{})
		var reqErr *RequestFailedError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
		assert.Equal(t, "Failed to fetch calendar events", reqErr.Message)
	})

	t.Run("not json", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "plain text")
		})

		_, err := client.Events(context.Background(), staticToken("t"), EventsQuery{})
		assert.True(t, IsMalformedResponse(err))
	})

	t.Run("transport", func(t *testing.T) {
		client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		srv.Close()

		_, err := client.Events(context.Background(), staticToken("t"), EventsQuery{})
		assert.True(t, IsTransportError(err))
	})
}

func TestCalendarStatusAndHealth(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/test/health":
			fmt.Fprint(w, `{"status":"SUCCESS","message":"Health check passed","data":{"status":"UP"}}`)
		case "/api/calendar/status":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"status":"SUCCESS","data":{"configuredProviders":["google"]}}`)
		default:
			http.NotFound(w, r)
		}
	})

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", health.Status)

	status, err := client.CalendarStatus(context.Background(), staticToken("tok"))
	require.NoError(t, err)

	var data struct {
		ConfiguredProviders []string `json:"configuredProviders"`
	}
	require.NoError(t, json.Unmarshal(status.Data, &data))
	assert.Equal(t, []string{"google"}, data.ConfiguredProviders)

	_, err = client.CalendarStatus(context.Background(), staticToken("wrong"))
	assert.True(t, IsRequestFailed(err))
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("google")
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, p)
	assert.Equal(t, "Outlook", ProviderOutlook.Title())

	_, err = ParseProvider("yahoo")
	assert.Error(t, err)
}
