// Package gemini provides an implementation of the llm.Backend interface
// that uses Google's Gemini API through the google.golang.org/genai client.
//
// This package is an infrastructure adapter: it translates a rendered prompt
// into a GenerateContent call and the response back into plain text, without
// exposing the details of the external service to the pipeline.
//
// Error Handling:
//   - genai.APIError responses become llm.ProviderError with the HTTP code
//   - prompts or candidates blocked by safety filters wrap llm.ErrContentBlocked
//   - empty candidates wrap llm.ErrInvalidResponse
//
// Calls are made exactly once. A failed call is reported to the caller
// without any retry.
package gemini
