package httpx

import "net/http"

// RequireScope rejects requests whose authenticated identity lacks the
// given scope. Must run after the gateway middleware; a request with no
// identity at all is rejected rather than waved through.
func RequireScope(scope string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				WriteBearerError(w, http.StatusUnauthorized,
					"invalid_token", "no authenticated identity")
				return
			}
			if !id.HasScope(scope) {
				WriteBearerError(w, http.StatusForbidden,
					"insufficient_scope", "the credential does not grant scope "+scope)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
