package llm

import "context"

// Request is a single text-generation call. It is created per call and
// never reused.
type Request struct {
	// Prompt is the fully rendered prompt text.
	Prompt string

	// Stop optionally lists sequences at which generation should halt.
	Stop []string
}

// Backend defines the interface for generating text from a prompt.
// Implementations are immutable after construction and safe for concurrent use.
type Backend interface {
	// Name identifies the provider, e.g. "openai" or "azure". It is used
	// in logs, metrics and error messages.
	Name() string

	// Generate sends the request to the provider and returns the completion text.
	// Any transport failure, non-success response or malformed body is
	// reported as a *ProviderError.
	Generate(ctx context.Context, req Request) (string, error)
}
