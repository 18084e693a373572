package logger

import (
	"regexp"
	"strings"
)

// Patterns for credentials that must never reach a log line.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(access_?token|refresh_?token|authorization)(["':=\s]+)([A-Za-z0-9\-._~+/]+=*)`),
	regexp.MustCompile(`(?i)(Bearer\s+)([A-Za-z0-9\-._~+/]+=*)`),
}

var urlSecretPattern = regexp.MustCompile(`([?&](?:token|access_token|code|state)=)[^&]*`)

// Redact masks bearer tokens and token-looking key/value pairs in s.
func Redact(s string) string {
	if s == "" {
		return s
	}

	out := sensitivePatterns[1].ReplaceAllString(s, "${1}[REDACTED]")
	out = sensitivePatterns[0].ReplaceAllString(out, "${1}${2}[REDACTED]")

	if strings.Contains(out, "?") {
		out = urlSecretPattern.ReplaceAllString(out, "${1}[REDACTED]")
	}
	return out
}

// TokenHint returns a short, non-reversible hint of a token for log lines.
func TokenHint(token string) string {
	if token == "" {
		return "<none>"
	}
	if len(token) <= 8 {
		return "[REDACTED]"
	}
	return token[:4] + "…[REDACTED]"
}
