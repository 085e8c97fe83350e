package llm

import (
	"errors"
	"fmt"
)

// Common errors returned by the llm package and its providers.
var (
	// ErrInvalidConfig is returned when a backend cannot be constructed
	// because required settings (API key, model, endpoint) are missing.
	ErrInvalidConfig = errors.New("invalid backend configuration")

	// ErrInvalidResponse is returned when a provider answers successfully
	// but the body lacks the expected completion content.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the provider refuses the prompt
	// because of safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")
)

// ProviderError reports a failed call to a model backend. Status is the HTTP
// status code when one was received and zero for transport failures.
type ProviderError struct {
	Provider string
	Status   int
	Detail   string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s provider error", e.Provider)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil && e.Detail == "" {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a ProviderError for the named provider.
func NewProviderError(provider string, status int, detail string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Status:   status,
		Detail:   detail,
		Err:      err,
	}
}
