package auth

import (
	"context"
)

// AuthType tells how a request was authenticated
type AuthType string

const (
	AuthTypeSession AuthType = "session"
	AuthTypeAPIKey  AuthType = "api_key"
)

// UserContext holds the authenticated admin
type UserContext struct {
	Username string
	AuthType AuthType
}

type contextKey string

const (
	userContextKey contextKey = "userContext"
	groupKey       contextKey = "group"
)

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// IsLoggedIn reports whether the request carries an authenticated admin
func IsLoggedIn(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}

// WithGroup stores the client group a request operates on
func WithGroup(ctx context.Context, group string) context.Context {
	return context.WithValue(ctx, groupKey, group)
}

// GroupFromContext returns the client group set by the group scope middleware
func GroupFromContext(ctx context.Context) (string, bool) {
	group, ok := ctx.Value(groupKey).(string)
	return group, ok && group != ""
}
