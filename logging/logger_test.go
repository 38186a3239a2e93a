package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []Entry {
	t.Helper()
	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry Entry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerFiltersBelowMinimumLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("panel", WARN, &buf)

	logger.Debug("form", "debug", nil)
	logger.Info("form", "info", nil)
	logger.Warn("form", "warn", map[string]any{"busy": true})
	logger.Error("form", "failed", errors.New("boom"), nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "panel", entries[0].Component)
	assert.Equal(t, true, entries[0].Fields["busy"])
	assert.Equal(t, "ERROR", entries[1].Level)
	assert.Equal(t, "boom", entries[1].Error)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        INFO,
		"debug":   DEBUG,
		" Info ":  INFO,
		"warning": WARN,
		"ERROR":   ERROR,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogContextRecordsDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := New("panel", DEBUG, &buf)

	logger.WithRequestID("req-1").
		WithCategory("remote").
		WithField("path", "channel").
		Done(INFO, "GET channel", time.Now().Add(-5*time.Millisecond), nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, "remote", entries[0].Category)
	require.NotNil(t, entries[0].Duration)
	assert.GreaterOrEqual(t, *entries[0].Duration, int64(5))
}

func TestDiscardLoggerIsDisabled(t *testing.T) {
	logger := Discard()
	assert.False(t, logger.Enabled(ERROR))

	var nilLogger *Logger
	assert.False(t, nilLogger.Enabled(ERROR))
}
