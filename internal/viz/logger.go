package viz

import (
	"io"
	"log/slog"
	"os"
)

var (
	level  = new(slog.LevelVar)
	Logger = newLogger(os.Stderr)
)

func init() {
	level.Set(slog.LevelWarn)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetVerbose lowers the log level to debug.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelWarn)
	}
}

// SetOutput redirects the logger, keeping the current level.
func SetOutput(w io.Writer) {
	Logger = newLogger(w)
}
