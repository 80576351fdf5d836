package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sentinelsec/scangate/internal/gateway/service"
	"github.com/sentinelsec/scangate/pkg/gatesdk"
	"github.com/sentinelsec/scangate/pkg/httpx"
	"github.com/sentinelsec/scangate/pkg/slogx"
)

// TokenHandler serves POST /auth/token.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Token Endpoint
//	@Description	Exchanges a registered shared secret for a JWT access and refresh token pair. The secret arrives in the JSON body or as an X-Api-Key header; client_id is optional.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.TokenRequest	true	"client_id and client_secret"
//	@Success		200		{object}	gatesdk.TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Router			/auth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// The body is optional when the secret arrives as a header.
	var req gatesdk.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	// client_id is optional: the secret alone identifies the client.
	clientID := strings.TrimSpace(req.ClientID)
	secret := req.ClientSecret
	if secret == "" {
		secret = r.Header.Get("X-Api-Key")
	}
	if secret == "" {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.IssueTokenPair(ctx, clientID, secret)
	if err != nil {
		if errors.Is(err, service.ErrInvalidClient) {
			gatesdk.ErrInvalidClient.WriteError(w)
			return
		}
		log.Error("token issuance failed", "err", err)
		gatesdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
		ClientID:     pair.ClientID,
		Scopes:       pair.Scopes,
	})
}
