// Package redact provides utilities for redacting sensitive information from strings
// before they are logged or returned in error responses. Model providers echo
// request details back in error bodies, so provider diagnostics pass through
// here before reaching logs or users.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules are applied in order; earlier, more specific rules win.
var rules = []rule{
	// JWT token pattern - matches the standard three-part base64url-encoded JWT token format
	{
		regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		RedactedJWTPlaceholder,
	},
	// Authorization: Bearer <token>
	{
		regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-.~+/]{8,}=*`),
		"${1}" + RedactedKeyPlaceholder,
	},
	// OpenAI style secret keys
	{
		regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{16,}`),
		RedactedKeyPlaceholder,
	},
	// Google API keys
	{
		regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{30,}`),
		RedactedKeyPlaceholder,
	},
	// Credentials embedded in URLs
	{
		regexp.MustCompile(`(?i)(https?://)[^/\s:@]+:[^/\s@]+@`),
		"${1}" + RedactedCredentialPlaceholder + "@",
	},
	// key=value and "key": "value" forms (api-key, token, secret, ...)
	{
		regexp.MustCompile(`(?i)\b(api[_-]?key|token|secret|password|key)\b(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		"${1}${2}" + RedactedKeyPlaceholder,
	},
	// Email addresses
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		RedactedEmailPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
