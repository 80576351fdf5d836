package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sentinelsec/scangate/internal/gateway/domain"
	"github.com/sentinelsec/scangate/pkg/cryptox"
	"github.com/sentinelsec/scangate/pkg/httpx"
	"github.com/sentinelsec/scangate/pkg/slogx"
)

var ErrMissingCredentials = errors.New("missing_credentials")

// GatewayService decides whether a scan request may pass, according to the
// configured authentication mode.
type GatewayService struct {
	Mode        domain.Mode
	Credentials *CredentialService
	Tokens      *TokenService
}

// Authenticate resolves the caller's identity from the presented
// credentials. bearerToken is the Authorization bearer value (empty when
// absent) and apiKey the X-Api-Key header value.
//
// In token mode a present bearer token is authoritative: a bad token is
// rejected even if a valid API key accompanies it. Only when no bearer
// token is presented at all does the gateway fall back to the API key
// path, so existing key-based integrations keep working.
func (s *GatewayService) Authenticate(ctx context.Context, bearerToken, apiKey string) (httpx.Identity, error) {
	switch s.Mode {
	case domain.ModeOpen:
		return httpx.Identity{Method: httpx.MethodOpen}, nil

	case domain.ModeSharedSecret:
		return s.checkAPIKey(ctx, apiKey)

	case domain.ModeToken:
		if bearerToken != "" {
			return s.checkToken(ctx, bearerToken)
		}
		return s.checkAPIKey(ctx, apiKey)

	default:
		return httpx.Identity{}, ErrMissingCredentials
	}
}

// checkAPIKey resolves a bare pre-shared key against the client registry.
func (s *GatewayService) checkAPIKey(ctx context.Context, apiKey string) (httpx.Identity, error) {
	l := slogx.FromContext(ctx)

	if apiKey == "" {
		return httpx.Identity{}, ErrMissingCredentials
	}

	client, err := s.Credentials.FindByKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, ErrInvalidClient) || errors.Is(err, ErrClientDisabled) {
			// Log a digest of the rejected key so repeat offenders can be
			// correlated without the key itself ever reaching the logs.
			l.Info("api key authentication failed",
				slog.String("key_fingerprint", cryptox.Fingerprint(apiKey)))
			return httpx.Identity{}, ErrInvalidClient
		}
		return httpx.Identity{}, err
	}

	return httpx.Identity{
		ClientID: client.ID,
		Method:   httpx.MethodAPIKey,
		Scopes:   client.Scopes,
	}, nil
}

func (s *GatewayService) checkToken(ctx context.Context, bearerToken string) (httpx.Identity, error) {
	l := slogx.FromContext(ctx)

	info, err := s.Tokens.Validate(ctx, bearerToken)
	if err != nil {
		l.Info("bearer token rejected", slog.Any("error", err))
		return httpx.Identity{}, err
	}

	return httpx.Identity{
		ClientID: info.ClientID,
		Method:   httpx.MethodToken,
		Scopes:   info.Scopes,
	}, nil
}
