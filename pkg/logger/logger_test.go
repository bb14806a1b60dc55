package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, TraceLevel, ParseLevel("trace"))
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, InfoLevel, ParseLevel("bogus"))
}

func TestNewDefaultsComponent(t *testing.T) {
	l := New(Config{Level: InfoLevel})
	assert.Equal(t, "woodfmt", l.config.Component)
}

func TestPrettyFormattingSortsFields(t *testing.T) {
	l := New(Config{Level: InfoLevel, Component: "test"})
	entry := LogEntry{
		Time:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Level:     "INFO",
		Message:   "formatted",
		Component: "test",
		Fields:    map[string]interface{}{"zeta": 1, "alpha": "a"},
	}

	out := l.formatPretty(entry)
	assert.Equal(t, "2025-01-01 12:00:00 [INFO] test: formatted {alpha=a, zeta=1}", out)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: WarnLevel, Output: &buf})

	l.Log(InfoLevel, "hidden")
	l.Log(WarnLevel, "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: InfoLevel, JSON: true, Component: "test", Output: &buf})

	l.Log(ErrorLevel, "boom", String("path", "a.go"), Int("count", 2))

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "boom", entry.Message)
	assert.Equal(t, "a.go", entry.Fields["path"])
	assert.EqualValues(t, 2, entry.Fields["count"])
}

func TestDefaultLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Initialize(Config{Level: TraceLevel, Output: &buf}))
	t.Cleanup(func() { defaultLogger = nil })

	Trace("t")
	Debug("d")
	Info("i")
	Warn("w")
	Error("e", Err(assert.AnError))

	out := buf.String()
	for _, want := range []string{"[TRACE]", "[DEBUG]", "[INFO]", "[WARN]", "[ERROR]", assert.AnError.Error()} {
		assert.Contains(t, out, want)
	}
}

func TestErrFieldNil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
}
