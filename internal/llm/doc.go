// Package llm defines the boundary between the card pipeline and external
// text-generation services. A Backend turns a prompt into text; concrete
// providers (OpenAI chat completions, a custom HTTP chat endpoint, Gemini)
// live under internal/platform and are selected by configuration, so the
// pipeline never depends on a specific vendor's wire format.
package llm
