package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/yijiazho/calendar/internal/logger"
)

// Envelope is the {status, message, data} wrapper the backend puts around
// its auth and status responses.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// EventsQuery narrows the events request to a time window. Zero times are
// left off the request.
type EventsQuery struct {
	Start time.Time
	End   time.Time
}

// Backend's LocalDateTime parameter format.
const queryTimeLayout = "2006-01-02T15:04:05"

func (q EventsQuery) values() url.Values {
	v := url.Values{}
	if !q.Start.IsZero() {
		v.Set("start", q.Start.Format(queryTimeLayout))
	}
	if !q.End.IsZero() {
		v.Set("end", q.End.Format(queryTimeLayout))
	}
	return v
}

type Options struct {
	BaseURL    string
	EventsPath string
	HealthPath string
	UserAgent  string
	// HTTPClient is the transport base; nil means a client without a
	// timeout, since view requests run to completion.
	HTTPClient *http.Client
}

// Client talks to the calendar aggregator backend. It only ever sends
// requests to the configured base URL's scheme and host.
type Client struct {
	baseURL    *url.URL
	rawBase    string
	eventsPath string
	healthPath string
	userAgent  string
	http       *http.Client
}

func NewClient(opts Options) (*Client, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q is not absolute", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          10,
				IdleConnTimeout:       30 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "calagg/1.0"
	}

	return &Client{
		baseURL:    parsed,
		rawBase:    strings.TrimRight(opts.BaseURL, "/"),
		eventsPath: opts.EventsPath,
		healthPath: opts.HealthPath,
		userAgent:  userAgent,
		http:       httpClient,
	}, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.rawBase
}

// EventsURL is the full URL FetchEvents requests, without the query.
func (c *Client) EventsURL() string {
	return c.rawBase + c.eventsPath
}

// LoginURL asks the backend where to send the user for provider's consent
// page and returns that target resolved against the base URL.
func (c *Client) LoginURL(ctx context.Context, provider Provider) (string, error) {
	op := "login " + string(provider)
	endpoint := c.rawBase + LoginPathPrefix + url.PathEscape(string(provider))

	body, err := c.get(ctx, c.http, op, endpoint, fmt.Sprintf("Failed to initiate %s login", provider))
	if err != nil {
		return "", err
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", NewMalformedResponseError(op, "", "response is not valid JSON").WithCause(err)
	}

	var target string
	if len(env.Data) == 0 || json.Unmarshal(env.Data, &target) != nil || target == "" {
		return "", NewMalformedResponseError(op, "data", "No redirect URL received")
	}

	resolved := c.ResolveRedirect(target)
	logger.Debug("login redirect resolved", "provider", provider, "target", resolved)
	return resolved, nil
}

// ResolveRedirect keeps absolute URLs and joins anything else onto the base
// URL with exactly one slash between them.
func (c *Client) ResolveRedirect(target string) string {
	if u, err := url.Parse(target); err == nil && u.IsAbs() {
		return target
	}
	return c.rawBase + "/" + strings.TrimLeft(target, "/")
}

// Events fetches the aggregated calendar events with ts as the bearer
// credential. The body is returned verbatim once it is known to be JSON.
func (c *Client) Events(ctx context.Context, ts oauth2.TokenSource, q EventsQuery) (json.RawMessage, error) {
	endpoint := c.EventsURL()
	if v := q.values(); len(v) > 0 {
		endpoint += "?" + v.Encode()
	}

	body, err := c.get(ctx, c.authorized(ts), "fetch events", endpoint, "Failed to fetch calendar events")
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, NewMalformedResponseError("fetch events", "", "response is not valid JSON")
	}
	return json.RawMessage(body), nil
}

// CalendarStatus reports the backend's view of the current session.
func (c *Client) CalendarStatus(ctx context.Context, ts oauth2.TokenSource) (*Envelope, error) {
	body, err := c.get(ctx, c.authorized(ts), "calendar status", c.rawBase+CalendarStatusPath, "Failed to get calendar status")
	if err != nil {
		return nil, err
	}
	return decodeEnvelope("calendar status", body)
}

// Health pings the backend's health endpoint.
func (c *Client) Health(ctx context.Context) (*Envelope, error) {
	body, err := c.get(ctx, c.http, "health check", c.rawBase+c.healthPath, "Health check failed")
	if err != nil {
		return nil, err
	}
	return decodeEnvelope("health check", body)
}

// Close closes idle connections in the underlying HTTP client
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func decodeEnvelope(op string, body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, NewMalformedResponseError(op, "", "response is not valid JSON").WithCause(err)
	}
	return &env, nil
}

// authorized wraps the base transport so every request carries the token
// from ts as a bearer credential.
func (c *Client) authorized(ts oauth2.TokenSource) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   c.http.Transport,
		},
		CheckRedirect: c.http.CheckRedirect,
		Jar:           c.http.Jar,
		Timeout:       c.http.Timeout,
	}
}

func (c *Client) get(ctx context.Context, hc *http.Client, op, endpoint, failure string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if !c.isAllowedURL(req.URL) {
		return nil, fmt.Errorf("request URL not allowed: %s", req.URL.Redacted())
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		logger.Warn("request failed", "op", op, "url", endpoint, "request_id", requestID, "error", err)
		return nil, NewRequestFailedError(op, 0, "request failed").WithCause(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	logger.Debug("request completed", "op", op, "url", endpoint, "request_id", requestID,
		"status", resp.StatusCode, "duration", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body carries no detail we use.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, NewRequestFailedError(op, resp.StatusCode, failure)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, NewRequestFailedError(op, 0, "failed to read response").WithCause(err)
	}
	if len(body) > maxResponseBytes {
		return nil, NewMalformedResponseError(op, "", fmt.Sprintf("response larger than %d bytes", maxResponseBytes))
	}

	return bytes.TrimSpace(body), nil
}

// isAllowedURL checks the request targets the configured backend.
func (c *Client) isAllowedURL(u *url.URL) bool {
	return u.Scheme == c.baseURL.Scheme && u.Host == c.baseURL.Host
}
