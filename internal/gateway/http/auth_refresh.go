package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sentinelsec/scangate/internal/gateway/service"
	"github.com/sentinelsec/scangate/pkg/gatesdk"
	"github.com/sentinelsec/scangate/pkg/httpx"
	"github.com/sentinelsec/scangate/pkg/slogx"
)

// RefreshHandler serves POST /auth/refresh.
type RefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Refresh Endpoint
//	@Description	Exchanges a refresh token for a new access token. The refresh token is returned unchanged.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.RefreshRequest	true	"refresh_token"
//	@Success		200		{object}	gatesdk.TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Router			/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req gatesdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.RefreshToken == "" {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenRevoked):
			gatesdk.ErrTokenRevoked.WriteError(w)
		case errors.Is(err, service.ErrTokenExpired):
			gatesdk.ErrExpiredToken.WriteError(w)
		case errors.Is(err, service.ErrWrongTokenUse),
			errors.Is(err, service.ErrInvalidToken):
			gatesdk.ErrInvalidToken.WriteError(w)
		default:
			log.Error("token refresh failed", "err", err)
			gatesdk.ErrServerError.WriteError(w)
		}
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
