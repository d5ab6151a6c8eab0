package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.level))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json handler carries attrs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&LoggerConfig{Level: "info", IsJSON: true}, &buf, slog.String("service", "hexspeak"))

		logger.Info("search finished", slog.Int("count", 4))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hexspeak", record["service"])
		assert.Equal(t, "search finished", record["msg"])
		assert.EqualValues(t, 4, record["count"])
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&LoggerConfig{Level: "warn"}, &buf)

		logger.Info("hidden")
		assert.Empty(t, buf.String())

		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("nil config falls back to info text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(nil, &buf)

		logger.Debug("hidden")
		logger.Info("visible")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=visible")
	})
}
