package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sentinelsec/scangate/internal/gateway/domain"
	"github.com/sentinelsec/scangate/pkg/jwtx"
	"github.com/sentinelsec/scangate/pkg/slogx"
)

var (
	ErrInvalidToken  = errors.New("invalid_token")
	ErrTokenExpired  = errors.New("expired_token")
	ErrTokenRevoked  = errors.New("token_revoked")
	ErrWrongTokenUse = errors.New("wrong_token_use")
)

// TokenService issues and validates the gateway's JWT token pairs.
type TokenService struct {
	Signer      *jwtx.HS256
	Credentials *CredentialService
	Revocations *RevocationService
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL != 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL != 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// IssueTokenPair exchanges a shared secret for an access and refresh token
// pair. When clientID is empty the secret alone is resolved against the
// registry; when present it pins the lookup to that client. The tokens
// carry the client's registered scopes.
func (s *TokenService) IssueTokenPair(ctx context.Context, clientID, clientSecret string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	var (
		client domain.Client
		err    error
	)
	if clientID == "" {
		client, err = s.Credentials.FindByKey(ctx, clientSecret)
	} else {
		client, err = s.Credentials.Authenticate(ctx, clientID, clientSecret)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidClient) || errors.Is(err, ErrClientDisabled) {
			l.Info("token request rejected", slog.String("client_id", clientID))
			return nil, ErrInvalidClient
		}
		return nil, err
	}

	return s.mint(client.ID, client.Scopes)
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is echoed back unchanged; it stays valid until its own expiry
// or revocation.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.verify(refreshToken, jwtx.TokenUseRefresh)
	if err != nil {
		return nil, err
	}

	// The client may have been removed or disabled since issuance.
	client, err := s.Credentials.Lookup(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrInvalidClient) || errors.Is(err, ErrClientDisabled) {
			l.Info("refresh rejected for unknown or disabled client",
				slog.String("client_id", claims.Subject))
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	now := time.Now()
	access := jwtx.NewAccessClaims(client.ID, client.Scopes, s.accessTTL(), s.Signer.Issuer(), now)
	accessToken, err := s.Signer.Sign(access)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTL(),
		ClientID:     client.ID,
		Scopes:       client.Scopes,
	}, nil
}

// Validate checks an access token and reports what it grants.
func (s *TokenService) Validate(ctx context.Context, accessToken string) (*domain.TokenInfo, error) {
	claims, err := s.verify(accessToken, jwtx.TokenUseAccess)
	if err != nil {
		return nil, err
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &domain.TokenInfo{
		ClientID:  claims.Subject,
		Scopes:    claims.Scopes,
		JTI:       claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// Revoke invalidates a token ahead of its natural expiry. Either half of a
// pair may be revoked; each token carries its own jti so revoking one does
// not affect the other. Revoking an already expired token is a no-op.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	l := slogx.FromContext(ctx)

	claims, err := s.Signer.Verify(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return nil
		}
		return ErrInvalidToken
	}

	if claims.ExpiresAt == nil {
		return ErrInvalidToken
	}

	s.Revocations.Revoke(claims.ID, claims.ExpiresAt.Time)
	l.Info("token revoked",
		slog.String("client_id", claims.Subject),
		slog.String("token_use", claims.TokenUse))

	return nil
}

// mint signs a fresh access and refresh pair for the given subject.
func (s *TokenService) mint(clientID string, scopes []string) (*domain.TokenPair, error) {
	now := time.Now()

	access := jwtx.NewAccessClaims(clientID, scopes, s.accessTTL(), s.Signer.Issuer(), now)
	accessToken, err := s.Signer.Sign(access)
	if err != nil {
		return nil, err
	}

	refresh := jwtx.NewRefreshClaims(clientID, scopes, s.refreshTTL(), s.Signer.Issuer(), now)
	refreshToken, err := s.Signer.Sign(refresh)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTL(),
		ClientID:     clientID,
		Scopes:       scopes,
	}, nil
}

// verify parses a token, checks its signature and expiry, enforces the
// expected token use, and consults the revocation list. Expiry keeps its
// own sentinel so callers can report it distinctly from a bad token.
func (s *TokenService) verify(token, expectedUse string) (jwtx.Claims, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return jwtx.Claims{}, ErrTokenExpired
		}
		return jwtx.Claims{}, ErrInvalidToken
	}

	if err := claims.ValidateUse(expectedUse); err != nil {
		return jwtx.Claims{}, ErrWrongTokenUse
	}

	if s.Revocations.IsRevoked(claims.ID) {
		return jwtx.Claims{}, ErrTokenRevoked
	}

	return claims, nil
}
