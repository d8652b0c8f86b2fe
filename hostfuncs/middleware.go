package hostfuncs

import (
	"context"
	"fmt"
	"log/slog"
)

// Middleware wraps a Native to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
type Middleware func(next Native) Native

// PanicRecoveryMiddleware converts a panic inside a capability into an error
// so it surfaces in the script as an ordinary evaluation failure instead of
// crashing the host.
func PanicRecoveryMiddleware() Middleware {
	return func(next Native) Native {
		return func(ctx context.Context, args Args) (out []Value, err error) {
			defer func() {
				if r := recover(); r != nil {
					out = nil
					err = NewPanicError(r)
					slog.ErrorContext(ctx, "hostfuncs: capability panicked",
						"function", FunctionName(ctx), "panic", fmt.Sprint(r))
				}
			}()
			return next(ctx, args)
		}
	}
}

// LoggingMiddleware logs capability invocations at debug level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Native) Native {
		return func(ctx context.Context, args Args) ([]Value, error) {
			name := FunctionName(ctx)
			logger.DebugContext(ctx, "invoking capability", "function", name, "args", len(args))
			out, err := next(ctx, args)
			if err != nil {
				logger.DebugContext(ctx, "capability failed", "function", name, "error", err)
			}
			return out, err
		}
	}
}
