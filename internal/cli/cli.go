// Package cli is the process entry point of 9sh. It loads the
// configuration, builds the capability registry and the runtime host, and
// is the single place that turns a bootstrap failure or a fail-fast
// evaluation error into an exit status.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ninesh-dev/ninesh/config"
	nerrors "github.com/ninesh-dev/ninesh/domain/errors"
	"github.com/ninesh-dev/ninesh/host"
	"github.com/ninesh-dev/ninesh/hostfuncs"
	"github.com/ninesh-dev/ninesh/internal/lineedit"
	"github.com/ninesh-dev/ninesh/log"
	"github.com/ninesh-dev/ninesh/shell"
)

// Run runs 9sh with the given standard files and arguments (including the
// program name) and returns the exit status.
func Run(fds [3]*os.File, args []string) int {
	inv, err := ParseArgs(args[1:])
	if err != nil {
		fmt.Fprintln(fds[2], err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(fds[2], err)
		return 1
	}
	logger := log.New(fds[2], log.WithLevel(cfg.Level()))
	slog.SetDefault(logger)

	sources, err := cfg.ModuleSources()
	if err != nil {
		fmt.Fprintln(fds[2], err)
		return 1
	}

	ed := newEditor(fds, inv, cfg, logger)
	defer ed.Close()

	reg, err := hostfuncs.NewDefaultRegistry(hostfuncs.Providers{
		Editor:          ed,
		SlowFilesystems: cfg.SlowFilesystems,
		Logger:          logger,
	})
	if err != nil {
		fmt.Fprintf(fds[2], "Error loading %s: %v\n", host.NativeModule, err)
		return 1
	}

	status := 0
	ctx := context.Background()
	h, err := host.New(ctx,
		host.WithRegistry(reg),
		host.WithModules(sources),
		host.WithStderr(fds[2]),
		host.WithExitFunc(func(code int) { status = code }),
		host.WithLogger(logger),
	)
	if err != nil {
		var bootErr *nerrors.BootstrapError
		if errors.As(err, &bootErr) {
			fmt.Fprintf(fds[2], "Error loading %s: %v\n", bootErr.Module, bootErr.Err)
		} else {
			fmt.Fprintln(fds[2], err)
		}
		return 1
	}
	defer h.Close()

	switch inv.Mode {
	case Eval:
		shell.Script(ctx, h, inv.Script)
	case File:
		h.EvaluateFile(ctx, inv.Path, true)
	default:
		err := shell.Interact(ctx, h, ed, shell.Config{
			Prompt:   cfg.Prompt,
			Banner:   cfg.Banner,
			Sentinel: cfg.HistorySentinel,
			Out:      fds[1],
			Logger:   logger,
		})
		if err != nil {
			fmt.Fprintln(fds[2], err)
			return 1
		}
	}
	return status
}

// newEditor builds the line editor. Only the interactive mode persists
// history; a store that cannot be opened is logged and skipped.
func newEditor(fds [3]*os.File, inv Invocation, cfg *config.Config, logger *slog.Logger) *lineedit.Editor {
	opts := []lineedit.Option{
		lineedit.WithHistoryLimit(cfg.HistoryLimit),
		lineedit.WithLogger(logger),
	}
	if inv.Mode == Interactive && cfg.HistoryFile != "" {
		store, err := lineedit.OpenStore(cfg.HistoryFile)
		if err != nil {
			logger.Warn("cli: history store unavailable", "path", cfg.HistoryFile, "error", err)
		} else {
			opts = append(opts, lineedit.WithHistoryStore(store))
		}
	}
	return lineedit.New(fds[0], fds[1], opts...)
}
