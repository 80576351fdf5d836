package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyBytes is the minimum HMAC key length we accept. HS256 with a key
// shorter than the hash output weakens the MAC, so we refuse outright at
// construction time rather than per call.
const MinKeyBytes = 32

var (
	ErrMissingKey  = errors.New("jwtx: signing key is required")
	ErrKeyTooShort = fmt.Errorf("jwtx: signing key must be at least %d bytes", MinKeyBytes)

	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrWrongUse    = errors.New("jwtx: wrong token use")
)

// Signer signs Claims into a compact JWT string.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a JWT and returns its claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies tokens with a single shared symmetric key. The
// whole gateway runs off one key loaded at startup; there is no kid-based
// key set like an asymmetric deployment would carry.
type HS256 struct {
	key    []byte
	issuer string
}

// NewHS256 builds the codec, failing fast on an absent or short key.
func NewHS256(key []byte, issuer string) (*HS256, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	if len(key) < MinKeyBytes {
		return nil, ErrKeyTooShort
	}
	return &HS256{key: key, issuer: issuer}, nil
}

// Issuer returns the issuer claim this codec signs and enforces.
func (h *HS256) Issuer() string { return h.issuer }

// Sign turns claims into a signed compact JWT.
func (h *HS256) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.key)
}

// Verify checks the signature and time claims, then the issuer. Signature
// and structure problems surface as distinct errors so callers can return
// specific rejection reasons.
func (h *HS256) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return h.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
