// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithAuth/FromContext for propagating auth info via context

package auth

import (
	"context"
)

// SystemActor names writes made without an authenticated request, such as seeding.
const SystemActor = "system"

// AuthContext holds the authenticated identity extracted from a request.
type AuthContext struct {
	Subject string // token "sub"
	Role    string // RoleAdmin or RoleEditor
}

// IsAdmin returns true if the bearer has the admin role.
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanEdit returns true if the bearer may write content.
func (a *AuthContext) CanEdit() bool {
	return a.Role == RoleAdmin || a.Role == RoleEditor
}

// authContextKey is the key type for storing AuthContext in context.Context.
type authContextKey struct{}

// WithAuth returns a new context with the AuthContext attached.
func WithAuth(ctx context.Context, auth *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// FromContext retrieves the AuthContext from the context, returning nil if not present.
func FromContext(ctx context.Context) *AuthContext {
	auth, _ := ctx.Value(authContextKey{}).(*AuthContext)
	return auth
}

// Actor returns the subject of the request's token, or SystemActor.
func Actor(ctx context.Context) string {
	if a := FromContext(ctx); a != nil && a.Subject != "" {
		return a.Subject
	}
	return SystemActor
}
