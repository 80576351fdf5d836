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

// RevokeHandler serves POST /auth/revoke.
type RevokeHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Revocation Endpoint
//	@Description	Invalidates an access or refresh token ahead of its natural expiry. Revoking an already revoked or expired token succeeds.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.RevokeRequest	true	"token to revoke"
//	@Success		200		{object}	map[string]string		"revoked"
//	@Failure		400		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Router			/auth/revoke [post].
func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req gatesdk.RevokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Token == "" {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.TokenService.Revoke(ctx, req.Token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			gatesdk.ErrInvalidToken.WriteError(w)
			return
		}
		log.Error("token revocation failed", "err", err)
		gatesdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}
