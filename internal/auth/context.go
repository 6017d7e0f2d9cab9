package auth

import "context"

type contextKey struct{}

// WithUserID stores the verified caller id in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the verified caller id, or "" when the request is
// unauthenticated.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(contextKey{}).(string)
	return uid
}
