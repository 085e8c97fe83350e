package mocks

import (
	"context"
	"sync"

	"github.com/ferrerallan/christmas-card-chain/internal/llm"
)

// MockBackend implements llm.Backend for testing
type MockBackend struct {
	// BackendName is returned by Name; defaults to "mock"
	BackendName string

	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, req llm.Request) (string, error)

	// Default response values
	Response string
	Err      error

	// mu protects the call tracking state for concurrent test cases
	mu       sync.Mutex
	requests []llm.Request
}

// Name implements the llm.Backend interface
func (m *MockBackend) Name() string {
	if m.BackendName == "" {
		return "mock"
	}
	return m.BackendName
}

// Generate implements the llm.Backend interface
func (m *MockBackend) Generate(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}

	return m.Response, m.Err
}

// Requests returns a copy of every request received so far
func (m *MockBackend) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns how many times Generate was called
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// NewMockBackendWithResponse creates a MockBackend that returns the given text
func NewMockBackendWithResponse(name, response string) *MockBackend {
	return &MockBackend{BackendName: name, Response: response}
}

// NewMockBackendWithError creates a MockBackend that fails with err
func NewMockBackendWithError(name string, err error) *MockBackend {
	return &MockBackend{BackendName: name, Err: err}
}
