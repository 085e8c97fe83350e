package card

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ferrerallan/christmas-card-chain/internal/llm"
	"github.com/ferrerallan/christmas-card-chain/internal/pipeline"
	"github.com/ferrerallan/christmas-card-chain/internal/prompt"
	"github.com/ferrerallan/christmas-card-chain/internal/redact"
)

// UserMessage converts a Generate error into text suitable for showing to
// the sender. Provider details are redacted.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		validationErr *ValidationError
		providerErr   *llm.ProviderError
		templateErr   *prompt.TemplateError
		stageErr      *pipeline.StageError
	)

	switch {
	case errors.As(err, &validationErr):
		fields := make([]string, 0, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			fields = append(fields, f.Field+" "+f.Message)
		}
		return "Please check the form: " + strings.Join(fields, "; ")
	case errors.Is(err, ErrInvalidForm):
		return "Please check the form."
	case errors.Is(err, context.DeadlineExceeded):
		return "Generating the card took too long. Please try again."
	case errors.Is(err, context.Canceled):
		return "Card generation was canceled."
	case errors.As(err, &providerErr):
		return fmt.Sprintf("Error generating message: %s", redact.String(providerErr.Error()))
	case errors.As(err, &templateErr):
		return "Error generating message: the prompt is missing " + strings.Join(templateErr.Missing, ", ")
	case errors.As(err, &stageErr) && stageErr.Kind() == pipeline.KindRender:
		return "Error creating the PDF."
	case pipeline.KindOf(err) == pipeline.KindConfiguration:
		return "The card generator is not configured correctly."
	default:
		return "An unexpected error occurred."
	}
}
