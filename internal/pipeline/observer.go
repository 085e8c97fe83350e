package pipeline

import (
	"context"
	"time"
)

// StageEvent describes one stage execution.
type StageEvent struct {
	RunID     string
	Index     int
	OutputKey string
	Backend   string

	// Available lists, sorted, the keys in the working set when the stage started.
	Available []string

	// Duration and Err are set on StageFinished only.
	Duration time.Duration
	Err      error
}

// Observer receives stage lifecycle notifications. Implementations must be
// safe for concurrent use since one pipeline serves concurrent runs.
type Observer interface {
	StageStarted(ctx context.Context, event StageEvent)
	StageFinished(ctx context.Context, event StageEvent)
}
