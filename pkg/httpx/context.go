package httpx

import "context"

type ctxKey string

const (
	// CtxKeyIdentity holds the authenticated identity established by the
	// gateway middleware. Request-scoped, never persisted.
	CtxKeyIdentity ctxKey = "identity"
)

// Identity is the request-scoped result of a successful authentication
// decision: who the caller is, how they proved it, and what they may do.
type Identity struct {
	ClientID string
	Method   string // "open", "api_key" or "token"
	Scopes   []string
}

// Credential method values for Identity.Method.
const (
	MethodOpen   = "open"
	MethodAPIKey = "api_key"
	MethodToken  = "token"
)

// HasScope reports whether the identity may exercise the given scope.
// An identity with no scopes at all (open mode) and the "*" wildcard are
// both unrestricted.
func (id Identity) HasScope(scope string) bool {
	if len(id.Scopes) == 0 {
		return true
	}
	for _, s := range id.Scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

// ContextWithIdentity attaches the identity for downstream handlers.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, CtxKeyIdentity, id)
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(Identity)
	return id, ok
}
