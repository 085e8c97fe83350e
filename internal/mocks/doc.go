// Package mocks provides centralized mock implementations for testing.
//
// MockBackend stands in for any llm.Backend and MockRenderer for the
// pipeline's artifact renderer. Both record their calls under a mutex so
// they can be shared by concurrent pipeline runs.
//
// Usage:
//
//	base := &mocks.MockBackend{
//	    BackendName: "openai",
//	    GenerateFn: func(ctx context.Context, req llm.Request) (string, error) {
//	        return "Dear Ana, Merry Christmas!", nil
//	    },
//	}
//
//	// Use the mock in a pipeline.Stage, then inspect base.Requests()
package mocks
