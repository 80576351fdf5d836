package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sentinelsec/scangate/pkg/cryptox"
)

// Default token TTLs. Overridable per-service via configuration.
const (
	// DefaultAccessTokenTTL keeps access tokens short-lived; revocation is
	// best-effort so expiry is the real backstop.
	DefaultAccessTokenTTL = 1 * time.Hour

	// DefaultRefreshTokenTTL is how long a client can mint new access
	// tokens without re-presenting its shared secret.
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// Token use values carried in the "token_use" claim. Access and refresh
// tokens share a shape and a signing key; this claim is what keeps one from
// being replayed as the other, so it is checked on every validation.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// Claims are the token claims used across the gateway.
type Claims struct {
	jwt.RegisteredClaims

	// TokenUse discriminates access from refresh tokens.
	TokenUse string `json:"token_use"`

	// Scopes the subject is allowed to exercise. "*" means unrestricted.
	Scopes []string `json:"scopes,omitempty"`
}

// NewAccessClaims builds claims for a short-lived access token.
func NewAccessClaims(subject string, scopes []string, ttl time.Duration, issuer string, now time.Time) Claims {
	return newClaims(subject, TokenUseAccess, scopes, ttl, issuer, now)
}

// NewRefreshClaims builds claims for a refresh token. Refresh tokens carry
// the client's scopes too so a refreshed access token needs no registry
// lookup beyond confirming the client still exists.
func NewRefreshClaims(subject string, scopes []string, ttl time.Duration, issuer string, now time.Time) Claims {
	return newClaims(subject, TokenUseRefresh, scopes, ttl, issuer, now)
}

func newClaims(subject, use string, scopes []string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TokenUse: use,
		Scopes:   scopes,
	}
}

// NewJTI returns a random 128-bit identifier for the "jti" claim. The jti is
// the sole handle for targeted revocation, so collisions must be negligible.
func NewJTI() string {
	return cryptox.MustGenerateToken(cryptox.TokenSize128)
}

// ValidateIssuer checks the issuer claim against the expected value.
// An empty expected issuer enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateUse ensures the token carries the expected "token_use" claim.
func (c *Claims) ValidateUse(expected string) error {
	if c.TokenUse != expected {
		return ErrWrongUse
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ExpiresIn reports the time remaining until expiry, clamped at zero.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// HasScope reports whether the claims grant the given scope, treating "*"
// as unrestricted.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, "*") || slices.Contains(c.Scopes, scope)
}
