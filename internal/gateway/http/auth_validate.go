package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/sentinelsec/scangate/internal/gateway/service"
	"github.com/sentinelsec/scangate/pkg/gatesdk"
	"github.com/sentinelsec/scangate/pkg/httpx"
	"github.com/sentinelsec/scangate/pkg/slogx"
)

// ValidateHandler serves GET /auth/validate.
type ValidateHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Validation Endpoint
//	@Description	Checks the bearer access token without consuming it. An invalid token yields a 200 with valid=false and the rejection reason.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	gatesdk.ValidateResponse	"valid, client_id, scopes, expires_in"
//	@Failure		400	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Router			/auth/validate [get].
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := httpx.ExtractBearer(r.Header.Get("Authorization"))
	if token == "" {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	info, err := h.TokenService.Validate(ctx, token)
	if err != nil {
		reason := gatesdk.ErrorCodeInvalidToken
		switch {
		case errors.Is(err, service.ErrTokenRevoked):
			reason = gatesdk.ErrorCodeTokenRevoked
		case errors.Is(err, service.ErrTokenExpired):
			reason = gatesdk.ErrorCodeExpiredToken
		case errors.Is(err, service.ErrInvalidToken),
			errors.Is(err, service.ErrWrongTokenUse):
			// keep the generic reason
		default:
			log.Error("token validation failed", "err", err)
			gatesdk.ErrServerError.WriteError(w)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, gatesdk.ValidateResponse{
			Valid: false,
			Error: reason,
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.ValidateResponse{
		Valid:     true,
		ClientID:  info.ClientID,
		Scopes:    info.Scopes,
		ExpiresIn: int(time.Until(info.ExpiresAt).Seconds()),
	})
}
