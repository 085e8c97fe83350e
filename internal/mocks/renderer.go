package mocks

import "sync"

// RenderCall records the arguments of one Render call
type RenderCall struct {
	Text  string
	Title string
}

// MockRenderer implements pipeline.Renderer for testing
type MockRenderer struct {
	// RenderFn allows test cases to mock the Render behavior
	RenderFn func(text, title string) ([]byte, error)

	// Default response values
	Output []byte
	Err    error

	mu    sync.Mutex
	calls []RenderCall
}

// Render implements the pipeline.Renderer interface
func (m *MockRenderer) Render(text, title string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, RenderCall{Text: text, Title: title})
	m.mu.Unlock()

	if m.RenderFn != nil {
		return m.RenderFn(text, title)
	}
	return m.Output, m.Err
}

// Calls returns a copy of every Render call received so far
func (m *MockRenderer) Calls() []RenderCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RenderCall, len(m.calls))
	copy(out, m.calls)
	return out
}
