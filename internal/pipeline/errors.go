package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ferrerallan/christmas-card-chain/internal/llm"
	"github.com/ferrerallan/christmas-card-chain/internal/prompt"
)

// ErrorKind classifies a stage failure.
type ErrorKind string

// Error kinds reported by StageError.Kind.
const (
	KindTemplate      ErrorKind = "TemplateError"
	KindProvider      ErrorKind = "ProviderError"
	KindConfiguration ErrorKind = "ConfigurationError"
	KindRender        ErrorKind = "RenderError"
	KindCanceled      ErrorKind = "Canceled"
	KindUnknown       ErrorKind = "UnknownError"
)

// ErrRender marks failures of the terminal artifact stage.
var ErrRender = errors.New("artifact rendering failed")

// ConfigError reports an inconsistent pipeline definition, or a requested
// final output that no stage produced.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "pipeline configuration error: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// StageError is returned by Run when a stage fails. Index is zero-based; the
// artifact stage, when configured, has index len(stages).
type StageError struct {
	Index     int
	OutputKey string
	Err       error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s) failed with %s: %v", e.Index, e.OutputKey, e.Kind(), e.Err)
}

// Unwrap returns the underlying stage error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Kind classifies the underlying error.
func (e *StageError) Kind() ErrorKind {
	return KindOf(e.Err)
}

// KindOf classifies err into one of the pipeline error kinds.
func KindOf(err error) ErrorKind {
	var (
		tmplErr     *prompt.TemplateError
		providerErr *llm.ProviderError
		configErr   *ConfigError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &tmplErr):
		return KindTemplate
	case errors.As(err, &providerErr):
		return KindProvider
	case errors.As(err, &configErr),
		errors.Is(err, llm.ErrInvalidConfig),
		errors.Is(err, prompt.ErrInvalidTemplate):
		return KindConfiguration
	case errors.Is(err, ErrRender):
		return KindRender
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}
