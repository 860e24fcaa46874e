package shared

import "context"

// UserContext carries the authenticated caller identity decoded from the
// access token. Every tenant-scoped service receives it explicitly.
type UserContext struct {
	UserID    string
	CompanyID string
	Role      string
}

type userContextKey struct{}

// ContextWithUser stores the caller identity in the request context.
func ContextWithUser(ctx context.Context, uc UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// UserFromContext extracts the caller identity from context.
func UserFromContext(ctx context.Context) (UserContext, bool) {
	uc, ok := ctx.Value(userContextKey{}).(UserContext)
	return uc, ok
}
