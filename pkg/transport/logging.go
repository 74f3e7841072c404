package transport

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that emits structured log entries for each
// tool invocation. The log entry includes the tool name, duration,
// request ID (from context), and whether the invocation succeeded or
// failed. HTTP-level logging (status codes, paths) is handled by the
// observability middleware in front of the MCP handler.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, inv *Invocation) (any, error) {
			start := time.Now()

			result, err := next.HandleTool(ctx, inv)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("tool", inv.Tool),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "tool invocation failed", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelInfo, "tool invocation completed", attrs...)
			}

			return result, err
		})
	}
}
