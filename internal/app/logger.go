package app

import (
	"io"
	"log/slog"
)

// newLogger builds the gate's isolated logger. It never touches the global
// logger, and it writes to outW — the gate's diagnostic stream — so stdout
// stays clean for the command the gate hands over to. Unknown level or
// format strings fall back to info/text; by the time a config reaches here
// the CLI has already rejected anything else.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch formatStr {
	case "json":
		handler = slog.NewJSONHandler(outW, opts)
	default:
		handler = slog.NewTextHandler(outW, opts)
	}

	return slog.New(handler)
}
