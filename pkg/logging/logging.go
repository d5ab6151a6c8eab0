package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type LoggerConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	IsJSON bool   `yaml:"is_json"`
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a logger writing to w. Reports go to stdout, so the CLI
// hands stderr here.
func NewLogger(cfg *LoggerConfig, w io.Writer, attrs ...slog.Attr) *slog.Logger {
	if cfg == nil {
		cfg = &LoggerConfig{}
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	if cfg.IsJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h.WithAttrs(attrs))
}

func InitLogger(cfg *LoggerConfig, attrs ...slog.Attr) {
	slog.SetDefault(NewLogger(cfg, os.Stderr, attrs...))
}
