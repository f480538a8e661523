// ABOUTME: Request context plumbing for the authenticated user identity
// ABOUTME: Provides WithUser/UserFromContext used by the session middleware

package auth

import (
	"context"
)

// userIDKey is the key type for storing the user ID in context.Context.
type userIDKey struct{}

// WithUser returns a new context with the authenticated user ID attached.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserFromContext retrieves the authenticated user ID from the context,
// returning the empty string if not present.
func UserFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}
