package backend

import "fmt"

// Provider identifies one of the OAuth providers the backend can start a
// login flow for.
type Provider string

const (
	ProviderGoogle  Provider = "google"
	ProviderOutlook Provider = "outlook"
)

// Providers lists the supported providers in display order.
var Providers = []Provider{ProviderGoogle, ProviderOutlook}

// ParseProvider validates a provider name from user input.
func ParseProvider(s string) (Provider, error) {
	for _, p := range Providers {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q (expected one of %v)", s, Providers)
}

// Title is the provider's display name.
func (p Provider) Title() string {
	switch p {
	case ProviderGoogle:
		return "Google"
	case ProviderOutlook:
		return "Outlook"
	default:
		return string(p)
	}
}

// Backend endpoints that are not configurable.
const (
	LoginPathPrefix    = "/auth/login/"
	CalendarStatusPath = "/api/calendar/status"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20
