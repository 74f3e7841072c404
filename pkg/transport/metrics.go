package transport

import (
	"context"
	"errors"
	"time"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/api"
	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/observability"
)

// Metrics returns middleware that records the invocation counter and
// duration histogram for each tool call. Failed invocations are labeled
// with the error type so dashboards can split timeouts from vendor
// failures.
func Metrics() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, inv *Invocation) (any, error) {
			start := time.Now()

			result, err := next.HandleTool(ctx, inv)

			observability.ToolInvocationsTotal.WithLabelValues(inv.Tool, statusLabel(err)).Inc()
			observability.ToolDuration.WithLabelValues(inv.Tool).Observe(time.Since(start).Seconds())

			return result, err
		})
	}
}

func statusLabel(err error) string {
	if err == nil {
		return "success"
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return string(apiErr.Type)
	}
	return "error"
}
