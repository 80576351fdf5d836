package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sentinelsec/scangate/internal/gateway/scanner"
	"github.com/sentinelsec/scangate/internal/gateway/service"
	"github.com/sentinelsec/scangate/pkg/gatesdk"
	"github.com/sentinelsec/scangate/pkg/httpx"
	"github.com/sentinelsec/scangate/pkg/slogx"
	"github.com/sentinelsec/scangate/pkg/urlcheck"
)

// ScansHandler serves the /v1/scans routes. All of them sit behind the
// authentication gateway.
type ScansHandler struct {
	ScanService *service.ScanService
}

// HandleCreate godoc
//
//	@Summary		Start Scan
//	@Description	Validates the target URL against the scan policy and submits it to the backend engine.
//	@Tags			Scans
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		gatesdk.ScanRequest		true	"target_url and options"
//	@Success		201		{object}	gatesdk.ScanResponse	"job_id, target_url"
//	@Failure		400		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		502		{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/scans [post].
func (h *ScansHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req gatesdk.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.TargetURL == "" {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	identity, _ := httpx.IdentityFromContext(ctx)

	job, err := h.ScanService.StartScan(ctx, identity.ClientID, req.TargetURL, scanner.Options{
		Recurse: req.Recurse,
		Policy:  req.ScanPolicy,
	})
	if err != nil {
		switch {
		case errors.Is(err, urlcheck.ErrInvalidURL):
			gatesdk.ErrInvalidTarget.WriteError(w)
		case errors.Is(err, urlcheck.ErrForbiddenTarget):
			gatesdk.ErrForbiddenTarget.WriteError(w)
		case errors.Is(err, urlcheck.ErrUnresolvableHost):
			gatesdk.ErrUnresolvableHost.WriteError(w)
		case errors.Is(err, scanner.ErrUpstream):
			gatesdk.ErrUpstream.WriteError(w)
		default:
			log.Error("scan start failed", "err", err)
			gatesdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, gatesdk.ScanResponse{
		JobID:     job.ID,
		TargetURL: job.TargetURL,
	})
}

// HandleStatus godoc
//
//	@Summary		Scan Status
//	@Description	Reports the backend progress of a scan job.
//	@Tags			Scans
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string						true	"scan job id"
//	@Success		200	{object}	gatesdk.ScanStatusResponse	"job_id, progress, status"
//	@Failure		404	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Failure		502	{object}	gatesdk.ErrorResponse		"error, error_description"
//	@Router			/v1/scans/{id} [get].
func (h *ScansHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	jobID := r.PathValue("id")
	if jobID == "" {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	status, err := h.ScanService.Status(ctx, jobID)
	if err != nil {
		writeScanError(w, log, err)
		return
	}

	state := "running"
	if status.Complete {
		state = "complete"
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.ScanStatusResponse{
		JobID:    status.JobID,
		Progress: status.Progress,
		Status:   state,
	})
}

// HandleStop godoc
//
//	@Summary		Stop Scan
//	@Description	Halts a running scan job.
//	@Tags			Scans
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string					true	"scan job id"
//	@Success		200	{object}	map[string]string		"stopped"
//	@Failure		404	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Failure		502	{object}	gatesdk.ErrorResponse	"error, error_description"
//	@Router			/v1/scans/{id} [delete].
func (h *ScansHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	jobID := r.PathValue("id")
	if jobID == "" {
		gatesdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.ScanService.Stop(ctx, jobID); err != nil {
		writeScanError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func writeScanError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, scanner.ErrUnknownJob):
		gatesdk.NewGatewayError(http.StatusNotFound,
			gatesdk.ErrorCodeInvalidRequest, "unknown scan job").WriteError(w)
	case errors.Is(err, scanner.ErrUpstream):
		gatesdk.ErrUpstream.WriteError(w)
	default:
		log.Error("scan operation failed", "err", err)
		gatesdk.ErrServerError.WriteError(w)
	}
}
