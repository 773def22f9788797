package api

import "context"

type userIDKey struct{}

// WithUserID attaches the authenticated user to a request context. Set by the
// auth middleware, read by handlers.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok
}
