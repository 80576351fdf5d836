package service

import (
	"context"
	"testing"

	"github.com/sentinelsec/scangate/internal/gateway/scanner"
	"github.com/sentinelsec/scangate/pkg/urlcheck"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	startedURL string
	stopped    string
	jobID      string
	progress   int
	err        error
}

func (f *fakeEngine) StartScan(_ context.Context, targetURL string, _ scanner.Options) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.startedURL = targetURL
	return f.jobID, nil
}

func (f *fakeEngine) Progress(context.Context, string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.progress, nil
}

func (f *fakeEngine) Stop(_ context.Context, jobID string) error {
	if f.err != nil {
		return f.err
	}
	f.stopped = jobID
	return nil
}

func (f *fakeEngine) Ping(context.Context) error { return f.err }

func TestScanService_StartScan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid target reaches the engine", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{jobID: "7"}
		svc := &ScanService{
			Policy: &urlcheck.Policy{AllowHosts: []string{"example.com"}},
			Engine: engine,
		}

		job, err := svc.StartScan(ctx, "scanner-ci", "https://example.com/app", scanner.Options{})
		require.NoError(t, err)
		require.Equal(t, "7", job.ID)
		require.Equal(t, "scanner-ci", job.ClientID)
		require.Equal(t, "https://example.com/app", engine.startedURL)
	})

	t.Run("forbidden target never reaches the engine", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{jobID: "7"}
		svc := &ScanService{Policy: &urlcheck.Policy{}, Engine: engine}

		_, err := svc.StartScan(ctx, "scanner-ci", "http://127.0.0.1/admin", scanner.Options{})
		require.ErrorIs(t, err, urlcheck.ErrForbiddenTarget)
		require.Empty(t, engine.startedURL)
	})

	t.Run("engine failure surfaces as upstream error", func(t *testing.T) {
		t.Parallel()

		svc := &ScanService{
			Policy: &urlcheck.Policy{AllowHosts: []string{"example.com"}},
			Engine: &fakeEngine{err: scanner.ErrUpstream},
		}

		_, err := svc.StartScan(ctx, "scanner-ci", "https://example.com", scanner.Options{})
		require.ErrorIs(t, err, scanner.ErrUpstream)
	})
}

func TestScanService_Status(t *testing.T) {
	t.Parallel()

	svc := &ScanService{Engine: &fakeEngine{progress: 100}}

	status, err := svc.Status(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, 100, status.Progress)
	require.True(t, status.Complete)
}

func TestScanService_Stop(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{}
	svc := &ScanService{Engine: engine}

	require.NoError(t, svc.Stop(context.Background(), "7"))
	require.Equal(t, "7", engine.stopped)
}
