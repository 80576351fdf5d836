package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sentinelsec/scangate/internal/gateway/domain"
	"github.com/sentinelsec/scangate/internal/gateway/scanner"
	"github.com/sentinelsec/scangate/pkg/slogx"
	"github.com/sentinelsec/scangate/pkg/urlcheck"
)

// ScanService validates scan targets and forwards accepted scans to the
// backend engine. Every target passes the URL policy before the backend
// ever sees it.
type ScanService struct {
	Policy *urlcheck.Policy
	Engine scanner.Engine
}

// StartScan validates the target URL and submits it to the backend.
// Policy rejections surface as urlcheck errors; backend failures as
// scanner.ErrUpstream.
func (s *ScanService) StartScan(ctx context.Context, clientID, targetURL string, opts scanner.Options) (*domain.ScanJob, error) {
	l := slogx.FromContext(ctx)

	if err := s.Policy.Validate(ctx, targetURL); err != nil {
		l.Info("scan target rejected",
			slog.String("client_id", clientID),
			slog.Any("error", err))
		return nil, err
	}

	jobID, err := s.Engine.StartScan(ctx, targetURL, opts)
	if err != nil {
		l.Error("scan submission failed", slog.Any("error", err))
		return nil, err
	}

	l.Info("scan started",
		slog.String("client_id", clientID),
		slog.String("job_id", jobID),
		slog.String("target_url", targetURL))

	return &domain.ScanJob{
		ID:        jobID,
		TargetURL: targetURL,
		ClientID:  clientID,
		StartedAt: time.Now(),
	}, nil
}

// Status reports the backend progress of a scan job.
func (s *ScanService) Status(ctx context.Context, jobID string) (*domain.ScanStatus, error) {
	progress, err := s.Engine.Progress(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &domain.ScanStatus{
		JobID:    jobID,
		Progress: progress,
		Complete: progress >= 100,
	}, nil
}

// Stop halts a running scan job.
func (s *ScanService) Stop(ctx context.Context, jobID string) error {
	l := slogx.FromContext(ctx)

	if err := s.Engine.Stop(ctx, jobID); err != nil {
		return err
	}

	l.Info("scan stopped", slog.String("job_id", jobID))
	return nil
}
