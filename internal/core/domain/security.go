package domain

import "context"

// SecurityContext is the request-scoped identity installed by the
// authentication gate. It lives on the request context.Context and is
// discarded when the request ends; it is never shared across requests.
type SecurityContext struct {
	SubjectID     string
	Username      string
	Role          string
	Authenticated bool
}

// IsAdmin reports whether the subject carries the Admin role.
func (s SecurityContext) IsAdmin() bool {
	return s.Authenticated && s.Role == RoleAdmin
}

type securityContextKey struct{}

// WithSecurityContext returns a context carrying the supplied security context.
func WithSecurityContext(ctx context.Context, sctx SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextKey{}, sctx)
}

// SecurityContextFrom extracts the security context installed by the
// authentication gate. The second return is false when no gate ran or the
// request was anonymous.
func SecurityContextFrom(ctx context.Context) (SecurityContext, bool) {
	sctx, ok := ctx.Value(securityContextKey{}).(SecurityContext)
	return sctx, ok && sctx.Authenticated
}
