package transport

import "context"

// Invocation describes one tool call flowing through the middleware chain.
type Invocation struct {
	// Tool is the MCP tool name ("search" or "fetch").
	Tool string

	// Args is the decoded tool input, carried for logging.
	Args any
}

// Handler executes a tool invocation and returns its result payload.
// The payload is JSON-serialized into the MCP result by the server.
type Handler interface {
	HandleTool(ctx context.Context, inv *Invocation) (any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, inv *Invocation) (any, error)

// HandleTool calls f(ctx, inv).
func (f HandlerFunc) HandleTool(ctx context.Context, inv *Invocation) (any, error) {
	return f(ctx, inv)
}

// Middleware wraps a Handler to add cross-cutting behavior.
// Middleware is applied in order: the first middleware in the chain is
// the outermost wrapper (executes first on the way in, last on the way out).
type Middleware func(Handler) Handler

// Chain composes multiple middleware into a single middleware.
// Middleware are applied in order: Chain(a, b, c) produces a(b(c(handler))).
func Chain(middlewares ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// requestIDKeyType is the context key type for request IDs.
type requestIDKeyType struct{}

// requestIDKey is the context key for storing and retrieving request IDs.
var requestIDKey = requestIDKeyType{}

// RequestIDFromContext extracts the request ID from the context.
// Returns an empty string if no request ID is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns a new context with the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}
