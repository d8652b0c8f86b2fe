// Package log builds the structured (slog) logger of the host process.
package log

import (
	"io"
	"log/slog"
)

// HandlerOption configures the logger built by New.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Leveler
	addSource bool
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelWarn,
	}
}

// WithLevel sets the minimum level to report. A *slog.LevelVar can be
// passed to change it later.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// New returns a logger writing text records to w.
func New(w io.Writer, opts ...HandlerOption) *slog.Logger {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     cfg.level,
		AddSource: cfg.addSource,
	}))
}
