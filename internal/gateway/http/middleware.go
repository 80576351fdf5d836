package http

import (
	"errors"
	"net/http"

	"github.com/sentinelsec/scangate/internal/gateway/service"
	"github.com/sentinelsec/scangate/pkg/httpx"
)

// AuthGateway enforces the configured authentication mode on scan routes.
// On success the caller's identity is placed in the request context; on
// failure the request is rejected with a bearer-style 401 carrying the
// rejection reason.
func AuthGateway(gw *service.GatewayService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := httpx.ExtractBearer(r.Header.Get("Authorization"))
			apiKey := r.Header.Get("X-Api-Key")

			identity, err := gw.Authenticate(r.Context(), bearer, apiKey)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(
				httpx.ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// writeAuthError maps authentication failures onto 401 responses. Reasons
// are distinct so clients can tell a revoked token from an expired one, but
// no more detailed than that.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		httpx.WriteBearerError(w, http.StatusUnauthorized,
			"invalid_request", "missing credentials")
	case errors.Is(err, service.ErrTokenRevoked):
		httpx.WriteBearerError(w, http.StatusUnauthorized,
			"token_revoked", "the token has been revoked")
	case errors.Is(err, service.ErrTokenExpired):
		httpx.WriteBearerError(w, http.StatusUnauthorized,
			"expired_token", "the access token has expired")
	case errors.Is(err, service.ErrWrongTokenUse):
		httpx.WriteBearerError(w, http.StatusUnauthorized,
			"invalid_token", "a refresh token cannot be used as an access token")
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteBearerError(w, http.StatusUnauthorized,
			"invalid_token", "the access token is missing or malformed")
	case errors.Is(err, service.ErrInvalidClient):
		httpx.WriteBearerError(w, http.StatusUnauthorized,
			"invalid_client", "invalid api key")
	default:
		httpx.WriteBearerError(w, http.StatusUnauthorized,
			"invalid_request", "authentication failed")
	}
}
