package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, data string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestNewLogger_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "termreel.log")

	logger, err := NewLogger(path, LevelDebug)
	require.NoError(t, err)

	logger.Info("hello", "frames", 3)
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close(), "second close is a no-op")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entries := decodeLines(t, string(data))
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0]["msg"])
	assert.Equal(t, float64(3), entries[0]["frames"])
}

func TestNewLogger_EmptyPathUsesStderr(t *testing.T) {
	logger, err := NewLogger("", LevelInfo)
	require.NoError(t, err)
	assert.Nil(t, logger.file)
	assert.NoError(t, logger.Close())
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LevelWarn)

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	entries := decodeLines(t, buf.String())
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "ERROR", entries[1]["level"])
}

func TestLogger_ChildAttributes(t *testing.T) {
	var buf bytes.Buffer
	root := NewWriterLogger(&buf, LevelDebug)

	run := root.WithRun("run-1")
	phase := run.WithPhase("capture")
	phase.Info("sampled", "frame", 7)
	run.Info("done")

	entries := decodeLines(t, buf.String())
	require.Len(t, entries, 2)

	assert.Equal(t, "run-1", entries[0]["run_id"])
	assert.Equal(t, "capture", entries[0]["phase"])
	assert.Equal(t, float64(7), entries[0]["frame"])

	assert.Equal(t, "run-1", entries[1]["run_id"])
	assert.NotContains(t, entries[1], "phase", "parent is not affected by child attributes")
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Error("dropped")
	assert.NoError(t, logger.Close())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"Warn":    LevelWarn,
		"error":   LevelError,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
	assert.Equal(t, []string{"DEBUG", "INFO", "WARN", "ERROR"}, ValidLevels())
}

func TestIsValidLevel(t *testing.T) {
	for _, lvl := range ValidLevels() {
		assert.True(t, IsValidLevel(lvl))
		assert.True(t, IsValidLevel(strings.ToLower(lvl)))
	}
	assert.False(t, IsValidLevel(""))
	assert.False(t, IsValidLevel("trace"))
}
