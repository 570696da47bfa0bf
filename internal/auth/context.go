package auth

import (
	"context"

	"github.com/gatherly/gatherly/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityContextKey is the context key for storing the verified Identity.
	identityContextKey contextKey = "identity"
)

// ContextWithIdentity adds the verified Identity to the context.
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the Identity from the context.
// Returns nil if not present.
func IdentityFromContext(ctx context.Context) *model.Identity {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok {
		return nil
	}
	return identity
}

// MustIdentityFromContext retrieves the Identity from the context.
// Panics if not present (use only when the session middleware has run).
func MustIdentityFromContext(ctx context.Context) *model.Identity {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		panic("identity not found - ensure session middleware is applied")
	}
	return identity
}

// UserIDFromContext is a convenience function to get the user ID from context.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return ""
	}
	return identity.UserID
}
