package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: level, Output: &buf, Prefix: "keypad"})
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return l, &buf
}

func TestLoggerLevels(t *testing.T) {
	l, buf := newBufferLogger(LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)
	l.Error("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] keypad: shown 1")
	assert.Contains(t, out, "[ERROR] keypad: shown 2")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLoggerFieldsSorted(t *testing.T) {
	l, buf := newBufferLogger(LevelDebug)

	l.WithComponent("scanner").WithField("instance", "abc").Info("ready")

	assert.Equal(t,
		"2024-05-01T12:00:00.000 [INFO] keypad: ready {component=scanner, instance=abc}\n",
		buf.String())
}

func TestDerivedLoggerSharesLevel(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)
	child := l.WithComponent("child")

	l.SetLevel(LevelError)
	child.Warn("dropped")
	assert.Empty(t, buf.String())
	assert.False(t, child.Enabled(LevelWarn))
	assert.Equal(t, LevelError, child.Level())
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)
	_ = l.WithField("a", 1)

	l.Info("plain")
	assert.NotContains(t, buf.String(), "a=1")
}

func TestNop(t *testing.T) {
	l := Nop()
	assert.False(t, l.Enabled(LevelError))
	l.Error("nothing happens")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"Error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
	assert.Equal(t, "UNKNOWN", Level(9).String())
}
