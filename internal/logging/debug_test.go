package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugEnabled(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "should be disabled when empty", value: "", expected: false},
		{name: "should be enabled for any value", value: "1", expected: true},
		{name: "should be enabled for true", value: "true", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TA_DEBUG", tt.value)
			assert.Equal(t, tt.expected, DebugEnabled())
		})
	}
}

func TestLevel_HonoursDebugSwitch(t *testing.T) {
	t.Setenv("TA_DEBUG", "1")
	assert.Equal(t, slog.LevelDebug, Level(Options{}))

	t.Setenv("TA_DEBUG", "")
	assert.Equal(t, slog.LevelInfo, Level(Options{}))
}
