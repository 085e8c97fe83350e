package pipeline

import (
	"context"

	"github.com/ferrerallan/christmas-card-chain/internal/llm"
	"github.com/ferrerallan/christmas-card-chain/internal/prompt"
)

// Stage binds one prompt template to one backend and names the value it produces.
type Stage struct {
	Template  *prompt.Template
	Backend   llm.Backend
	OutputKey string

	// Stop is passed to the backend as stop sequences. Optional.
	Stop []string
}

// Execute renders the template from the values in working that it declares,
// sends the prompt to the backend and returns the result tagged with the
// stage's output key. Template and provider errors are returned unchanged.
func (s Stage) Execute(ctx context.Context, working map[string]string) (string, string, error) {
	subset := make(map[string]string, len(s.Template.Variables()))
	for _, name := range s.Template.Variables() {
		if value, ok := working[name]; ok {
			subset[name] = value
		}
	}

	rendered, err := s.Template.Render(subset)
	if err != nil {
		return "", "", err
	}

	text, err := s.Backend.Generate(ctx, llm.Request{
		Prompt: rendered,
		Stop:   s.Stop,
	})
	if err != nil {
		return "", "", err
	}

	return s.OutputKey, text, nil
}
