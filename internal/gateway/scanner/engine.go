package scanner

import (
	"context"
	"errors"
)

var (
	// ErrUpstream covers any failure talking to the scanner backend. Handlers
	// surface it as a generic 502 so backend details never reach clients.
	ErrUpstream = errors.New("scanner: backend request failed")

	// ErrUnknownJob is returned when the backend does not recognise a job id.
	ErrUnknownJob = errors.New("scanner: unknown scan job")
)

// Options tune a scan submission.
type Options struct {
	// Recurse controls whether the scan follows discovered pages.
	Recurse bool

	// Policy names the backend scan policy to apply. Empty uses the default.
	Policy string
}

// Engine is the scanner backend the gateway fronts. Implementations talk to
// a real scanning engine over its management API.
type Engine interface {
	// StartScan submits a target for scanning and returns the backend job id.
	StartScan(ctx context.Context, targetURL string, opts Options) (string, error)

	// Progress reports the completion percentage (0-100) of a running job.
	Progress(ctx context.Context, jobID string) (int, error)

	// Stop halts a running scan job.
	Stop(ctx context.Context, jobID string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}
