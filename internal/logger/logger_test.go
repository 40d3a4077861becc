package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	t.Run("Should convert all log levels to charm log levels correctly", func(t *testing.T) {
		testCases := []struct {
			level    LogLevel
			expected int
		}{
			{DebugLevel, -4},
			{InfoLevel, 0},
			{WarnLevel, 4},
			{LogLevel("WARNING"), 4},
			{ErrorLevel, 8},
			{DisabledLevel, 1000},
			{LogLevel("unknown"), 0},
		}
		for _, tc := range testCases {
			assert.Equal(t, tc.expected, int(tc.level.ToCharmlogLevel()), "level %s", tc.level)
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write text output to the configured writer", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})
		log.Info("command executed", "command", "ls -la")
		assert.Contains(t, buf.String(), "command executed")
		assert.Contains(t, buf.String(), "ls -la")
	})

	t.Run("Should emit JSON when enabled", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true, TimeFormat: "15:04:05"})
		log.Warn("forbidden pattern detected", "pattern", "sudo")
		out := buf.String()
		assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
		assert.Contains(t, out, `"pattern":"sudo"`)
	})

	t.Run("Should filter messages below the level", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: WarnLevel, Output: &buf, TimeFormat: "15:04:05"})
		log.Info("hidden")
		log.Debug("hidden too")
		assert.Empty(t, buf.String())
	})

	t.Run("Should fall back to defaults for nil config", func(t *testing.T) {
		require.NotNil(t, NewLogger(nil))
	})
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})
	base.With("component", "executor").Info("started")
	assert.Contains(t, buf.String(), "component")
	assert.Contains(t, buf.String(), "executor")
}

func TestConfigDefaults(t *testing.T) {
	cfg := TestConfig()
	assert.Equal(t, DisabledLevel, cfg.Level)
	assert.Equal(t, io.Discard, cfg.Output)

	def := DefaultConfig()
	assert.Equal(t, InfoLevel, def.Level)
	assert.Equal(t, "15:04:05", def.TimeFormat)
}

func TestOpenDailyFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	f, err := OpenDailyFile(dir, now)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, filepath.Join(dir, "logs", "jarvis_20261018.log"), f.Name())
	_, err = os.Stat(f.Name())
	assert.NoError(t, err)
}
