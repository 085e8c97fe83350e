// Package logger_test contains tests for the logger package
package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/ferrerallan/christmas-card-chain/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{" debug ", slog.LevelDebug, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := logger.ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

// TestNewWritesJSON verifies the logger produces one JSON object per record
// and respects the configured level.
func TestNewWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.New(&buf, "warn")

	l.Info("hidden")
	l.Warn("visible", "stage", "base_message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "base_message", entry["stage"])
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := logger.New(&buf, "loud")

	l.Debug("dropped")
	l.Info("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewNop(t *testing.T) {
	t.Parallel()

	l := logger.NewNop()
	require.NotNil(t, l)
	l.Error("goes nowhere")
}
