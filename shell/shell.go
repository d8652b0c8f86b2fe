// Package shell drives the runtime host with script fragments, either once
// (Script) or interactively from a line editor (Interact).
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ninesh-dev/ninesh/domain/ports"
)

// Evaluator evaluates one script fragment, reporting failures itself. With
// failFast a failure terminates the process.
type Evaluator interface {
	Evaluate(ctx context.Context, script string, failFast bool)
}

// Config controls the interactive loop.
type Config struct {
	// Prompt is shown before each line.
	Prompt string

	// Banner is written to Out once before the first prompt. Empty for none.
	Banner string

	// Sentinel keeps lines starting with it out of the history. Empty
	// records every line.
	Sentinel string

	Out io.Writer

	// Logger receives history persistence failures, which do not end the
	// loop.
	Logger *slog.Logger
}

// DefaultConfig returns the stock prompt, banner and sentinel.
func DefaultConfig() Config {
	return Config{
		Prompt:   "9sh> ",
		Banner:   "Welcome to 9sh (Skeletal)",
		Sentinel: " ",
		Out:      io.Discard,
		Logger:   slog.Default(),
	}
}

// Script evaluates code once in fail-fast mode.
func Script(ctx context.Context, ev Evaluator, code string) {
	ev.Evaluate(ctx, code, true)
}

// Interact reads lines from ed until end of input and evaluates each one
// without fail-fast. Evaluation failures never end the loop. It returns nil
// at end of input, the context error on cancellation, and any other
// editor error wrapped.
func Interact(ctx context.Context, ev Evaluator, ed ports.LineEditor, cfg Config) error {
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Banner != "" {
		fmt.Fprintln(cfg.Out, cfg.Banner)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := ed.ReadLine(cfg.Prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}
		if line == "" {
			continue
		}

		if cfg.Sentinel == "" || !strings.HasPrefix(line, cfg.Sentinel) {
			if err := ed.AddHistory(line); err != nil {
				cfg.Logger.WarnContext(ctx, "shell: history not saved", "error", err)
			}
		}
		ev.Evaluate(ctx, line, false)
	}
}
