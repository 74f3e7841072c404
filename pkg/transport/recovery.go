package transport

import (
	"context"
	"fmt"

	"github.com/Ibraheem762/Azure-OpenAI-Research-MCP-server/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to internal errors. The server continues to accept new
// invocations after a panic is recovered.
func Recovery() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, inv *Invocation) (result any, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					result = nil
					retErr = api.NewInternalError(fmt.Sprintf("internal server error: %v", r))
				}
			}()
			return next.HandleTool(ctx, inv)
		})
	}
}
