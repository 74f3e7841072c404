package auth

import "context"

type contextKey int

const identityContextKey contextKey = iota

// ContextWithIdentity returns a child context carrying the
// authenticated identity for downstream handlers.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the identity stored by the auth
// middleware, or nil when the request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey).(*Identity)
	return id
}
