package app

import (
	"io"
	"log/slog"
)

// newLogger builds the run's logger from the log settings of cfg. Logs go to
// w, which the CLI keeps apart from the rendered plan. An unrecognised level
// falls back to info. The global slog default is left untouched.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
