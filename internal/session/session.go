// Package session holds the bearer token shared by the client's views.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"github.com/yijiazho/calendar/internal/logger"
)

// ErrNoToken is returned by the token source when no session is present.
var ErrNoToken = errors.New("no session token")

// Listener is called with the new token after every change; ok is false
// when the session was cleared.
type Listener func(token string, ok bool)

// Session is the process-wide holder of the current bearer token. It is
// created empty and handed to each view that needs it.
type Session struct {
	mu        sync.RWMutex
	token     string
	listeners map[int]Listener
	nextID    int
}

func New() *Session {
	return &Session{listeners: make(map[int]Listener)}
}

// Token returns the current token and whether one is set.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// HasToken reports whether a token is set.
func (s *Session) HasToken() bool {
	_, ok := s.Token()
	return ok
}

// SetToken replaces the stored token. An empty (or blank) token clears the
// session. Listeners run after the lock is released.
func (s *Session) SetToken(token string) {
	token = strings.TrimSpace(token)

	s.mu.Lock()
	s.token = token
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	logger.Debug("session token changed", "token", logger.TokenHint(token))

	for _, l := range listeners {
		l(token, token != "")
	}
}

// Clear removes the stored token.
func (s *Session) Clear() {
	s.SetToken("")
}

// Subscribe registers fn for change notifications. The returned func
// unregisters it.
func (s *Session) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// TokenSource exposes the session as an oauth2 bearer credential. The token
// is read at request time, so a later SetToken is picked up.
func (s *Session) TokenSource() oauth2.TokenSource {
	return tokenSource{s: s}
}

type tokenSource struct {
	s *Session
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	token, ok := ts.s.Token()
	if !ok {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// callbackResponse is the body of the backend's /auth/callback/{provider}.
type callbackResponse struct {
	Status string `json:"status"`
	Data   struct {
		Provider    string `json:"provider"`
		AccessToken string `json:"accessToken"`
	} `json:"data"`
}

// TokenFromCallback accepts either a bare token or the JSON body the
// backend's OAuth callback page returns, and yields the access token.
func TokenFromCallback(input []byte) (string, error) {
	trimmed := strings.TrimSpace(string(input))
	if trimmed == "" {
		return "", fmt.Errorf("empty token")
	}

	if !strings.HasPrefix(trimmed, "{") {
		if strings.ContainsAny(trimmed, " \t\r\n") {
			return "", fmt.Errorf("token must not contain whitespace")
		}
		return trimmed, nil
	}

	var resp callbackResponse
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		return "", fmt.Errorf("failed to parse callback response: %w", err)
	}
	if resp.Data.AccessToken == "" {
		return "", fmt.Errorf("callback response has no data.accessToken")
	}
	return resp.Data.AccessToken, nil
}
