package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ConfigError represents configuration validation errors
type ConfigError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func NewConfigError(field, value, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

func (e *ConfigError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("config validation failed for %s=%s: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) WithCause(err error) *ConfigError {
	e.Err = err
	return e
}

var validStartTabs = []string{"login", "calendar"}

// Validate checks the fields the client depends on at request time.
func (c *Config) Validate() error {
	if err := validateBaseURL(c.API.BaseURL); err != nil {
		return err
	}

	if err := validatePath("api.events_path", c.API.EventsPath); err != nil {
		return err
	}

	if err := validatePath("api.health_path", c.API.HealthPath); err != nil {
		return err
	}

	if !contains(validStartTabs, c.UI.StartTab) {
		return NewConfigError("ui.start_tab", c.UI.StartTab,
			fmt.Sprintf("must be one of: %s", strings.Join(validStartTabs, ", ")))
	}

	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return NewConfigError("api.base_url", "", "base URL cannot be empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return NewConfigError("api.base_url", raw, "invalid URL format").WithCause(err)
	}

	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return NewConfigError("api.base_url", raw, "scheme must be http or https")
	}

	if parsed.Host == "" {
		return NewConfigError("api.base_url", raw, "host cannot be empty")
	}

	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return NewConfigError("api.base_url", raw, "must not carry a query or fragment")
	}

	return nil
}

func validatePath(field, p string) error {
	if p == "" {
		return NewConfigError(field, "", "path cannot be empty")
	}
	if !strings.HasPrefix(p, "/") {
		return NewConfigError(field, p, "path must start with /")
	}
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
