package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		debugEnv string
		expected slog.Level
	}{
		{name: "should default to info", expected: slog.LevelInfo},
		{name: "should use debug when verbose", opts: Options{Verbose: true}, expected: slog.LevelDebug},
		{name: "should use debug when TA_DEBUG is set", debugEnv: "1", expected: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TA_DEBUG", tt.debugEnv)
			assert.Equal(t, tt.expected, Level(tt.opts))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	t.Setenv("TA_DEBUG", "")
	var buf bytes.Buffer
	logger := NewLogger(Options{Format: "json", Writer: &buf})

	logger.Debug("dropped")
	logger.Info("task created", "task", "T1")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "task created", record["msg"])
	assert.Equal(t, "T1", record["task"])
	assert.Equal(t, "INFO", record["level"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Format: "unknown", Verbose: true, Writer: &buf})

	logger.Debug("opening store", "backend", "file")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "backend=file")
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
