package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/yijiazho/calendar/internal/backend"
	"github.com/yijiazho/calendar/internal/browser"
	"github.com/yijiazho/calendar/internal/logger"
)

type LoginState int

const (
	LoginIdle LoginState = iota
	LoginRequesting
	// LoginNavigating is terminal: the user has been sent to the provider.
	LoginNavigating
)

func (s LoginState) String() string {
	switch s {
	case LoginIdle:
		return "idle"
	case LoginRequesting:
		return "requesting"
	case LoginNavigating:
		return "navigating"
	default:
		return "unknown"
	}
}

// LoginBackend resolves where a provider's login flow starts.
type LoginBackend interface {
	LoginURL(ctx context.Context, provider backend.Provider) (string, error)
}

// LoginSnapshot is a copy of the login view's state for rendering.
type LoginSnapshot struct {
	State  LoginState
	Active backend.Provider // set while requesting or navigating
	Err    string
	Target string // set once navigating
}

// LoginView starts an OAuth login by asking the backend for the provider's
// redirect URL and navigating there.
type LoginView struct {
	backend   LoginBackend
	navigator browser.Navigator

	mu     sync.Mutex
	state  LoginState
	active backend.Provider
	err    string
	target string
}

func NewLoginView(b LoginBackend, nav browser.Navigator) *LoginView {
	return &LoginView{backend: b, navigator: nav}
}

// Enabled reports whether the login triggers accept input.
func (v *LoginView) Enabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state == LoginIdle
}

func (v *LoginView) Snapshot() LoginSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return LoginSnapshot{
		State:  v.state,
		Active: v.active,
		Err:    v.err,
		Target: v.target,
	}
}

// InitiateLogin runs the login flow for provider to completion.
func (v *LoginView) InitiateLogin(ctx context.Context, provider backend.Provider) error {
	run, err := v.Start(provider)
	if err != nil {
		return err
	}
	return run(ctx)
}

// Start reserves the in-flight slot for provider and returns the request
// to run. It fails with ErrBusy while another login is in flight.
func (v *LoginView) Start(provider backend.Provider) (func(ctx context.Context) error, error) {
	if _, err := backend.ParseProvider(string(provider)); err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	switch v.state {
	case LoginRequesting:
		return nil, ErrBusy
	case LoginNavigating:
		return nil, ErrNavigated
	}

	v.state = LoginRequesting
	v.active = provider
	v.err = ""

	return func(ctx context.Context) error {
		return v.run(ctx, provider)
	}, nil
}

func (v *LoginView) run(ctx context.Context, provider backend.Provider) error {
	logger.Info("initiating login", "provider", provider)

	target, err := v.backend.LoginURL(ctx, provider)
	if err != nil {
		v.fail(message(err))
		logger.Warn("login request failed", "provider", provider, "error", err)
		return err
	}

	if err := v.navigator.Navigate(target); err != nil {
		v.fail(fmt.Sprintf("Failed to open %s: %v", target, err))
		logger.Warn("navigation failed", "provider", provider, "error", err)
		return err
	}

	v.mu.Lock()
	v.state = LoginNavigating
	v.target = target
	v.mu.Unlock()

	logger.Info("navigated to provider", "provider", provider)
	return nil
}

// fail records msg and returns the view to idle so another attempt can start.
func (v *LoginView) fail(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = LoginIdle
	v.active = ""
	v.err = msg
}
