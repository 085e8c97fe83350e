package prompt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTemplate is returned when a template definition is inconsistent,
	// e.g. its text references a placeholder it does not declare.
	ErrInvalidTemplate = errors.New("invalid prompt template")

	// ErrTemplateNotFound is returned when a Set has no template with the requested name.
	ErrTemplateNotFound = errors.New("prompt template not found")
)

// TemplateError reports every required variable that was absent when
// rendering a template. It indicates a wiring defect and is not retryable.
type TemplateError struct {
	Template string
	Missing  []string
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q missing required variables: %s",
		e.Template, strings.Join(e.Missing, ", "))
}
